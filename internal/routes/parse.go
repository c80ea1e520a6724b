// Package routes reads a react-router routing manifest (app/routes.ts) into
// the routes it declares, either as declared or flattened.
package routes

import (
	"strings"

	"github.com/maxstack-dev/maxstack/internal/compiler/ast"
	"github.com/maxstack-dev/maxstack/internal/compiler/errors"
	"github.com/maxstack-dev/maxstack/internal/compiler/lexer"
	"github.com/maxstack-dev/maxstack/internal/compiler/parser"
)

// CatchAll is the path of the catch-all route
const CatchAll = "*"

// ParsedRoute is one route declared by the manifest
type ParsedRoute struct {
	Route    string `json:"route" yaml:"route"`
	FilePath string `json:"filePath" yaml:"filePath"`
	Layout   string `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// Parse returns the routes declared by the manifest source in declaration
// order. A manifest without a route array export yields an empty list.
// Only sources that cannot be tokenized fail, with a *errors.ManifestSyntaxError.
func Parse(src string) ([]ParsedRoute, error) {
	table, err := ParseTable(src)
	if err != nil {
		return nil, err
	}
	return Flatten(table), nil
}

// ParseStrict is like Parse but returns errors.ErrNoRouteExport when no
// export resolves to a route array.
func ParseStrict(src string) ([]ParsedRoute, error) {
	table, err := ParseTableStrict(src)
	if err != nil {
		return nil, err
	}
	return Flatten(table), nil
}

// ParseTable returns the route table entries as declared, keeping layout,
// prefix and parent route nesting.
func ParseTable(src string) ([]*Entry, error) {
	table, _, err := parse(src)
	return table, err
}

// ParseTableStrict is like ParseTable but returns errors.ErrNoRouteExport
// when no export resolves to a route array.
func ParseTableStrict(src string) ([]*Entry, error) {
	table, found, err := parse(src)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.ErrNoRouteExport
	}
	return table, nil
}

func parse(src string) ([]*Entry, bool, error) {
	tokens, lexErrs := lexer.New(src).ScanTokens()
	if len(lexErrs) > 0 {
		first := lexErrs[0]
		return nil, false, &errors.ManifestSyntaxError{
			Location: errors.SourceLocation{Line: first.Line, Column: first.Column},
			Message:  first.Message,
		}
	}

	// Parse errors are recoverable: whatever the parser could model is walked.
	module, _ := parser.New(tokens).Parse()

	table := findRouteTable(module)
	if table == nil {
		return []*Entry{}, false, nil
	}

	b := &builder{entries: make([]*Entry, 0)}
	b.VisitArray(table)
	return b.entries, true, nil
}

// findRouteTable returns the first export assignment that resolves to an
// array literal.
func findRouteTable(module *ast.Module) *ast.ArrayLiteralExpr {
	for _, export := range module.Exports {
		if array := resolveArray(module, export.Expr, 0); array != nil {
			return array
		}
	}
	return nil
}

// maxResolveDepth bounds identifier chains such as `const a = b; const b = a`
const maxResolveDepth = 8

func resolveArray(module *ast.Module, expr ast.ExprNode, depth int) *ast.ArrayLiteralExpr {
	if depth > maxResolveDepth {
		return nil
	}

	switch e := ast.Unwrap(expr).(type) {
	case *ast.ArrayLiteralExpr:
		return e
	case *ast.Identifier:
		if init, ok := module.Lookup(e.Name); ok {
			return resolveArray(module, init, depth+1)
		}
	}
	return nil
}

// resolvePath computes the full route path of path declared under prefix.
// Outside any prefix a path starting with "/" or equal to "*" is kept
// verbatim and any other path gains a leading slash.
func resolvePath(prefix, path string) string {
	if prefix == "" {
		if strings.HasPrefix(path, "/") || path == CatchAll {
			return path
		}
		return "/" + path
	}

	segment := strings.Trim(path, "/")
	if segment == "" {
		return "/" + prefix
	}
	return "/" + prefix + "/" + segment
}

func joinSegments(prefix, segment string) string {
	segment = strings.Trim(segment, "/")
	switch {
	case segment == "":
		return prefix
	case prefix == "":
		return segment
	default:
		return prefix + "/" + segment
	}
}
