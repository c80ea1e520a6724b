package routes

import "github.com/maxstack-dev/maxstack/internal/compiler/ast"

// EntryKind is the route DSL helper an entry was declared with
type EntryKind int

const (
	EntryRoute EntryKind = iota
	EntryIndex
	EntryLayout
	EntryPrefix
)

func (k EntryKind) String() string {
	switch k {
	case EntryRoute:
		return "route"
	case EntryIndex:
		return "index"
	case EntryLayout:
		return "layout"
	case EntryPrefix:
		return "prefix"
	default:
		return "unknown"
	}
}

// Entry is one element of the route table as it was declared. Path holds
// the declared path of route and prefix entries, File the module of route,
// index and layout entries. Children is nil for a route declared without a
// children array.
type Entry struct {
	Kind     EntryKind
	Path     string
	File     string
	Spread   bool
	Children []*Entry
}

// Flatten resolves the entries into the routes they declare, in declaration
// order. Each route records the path it matches and its innermost layout.
func Flatten(entries []*Entry) []ParsedRoute {
	return flatten(entries, scope{}, make([]ParsedRoute, 0))
}

// scope is the prefix and layout in effect for a group of children
type scope struct {
	prefix string // joined prefix segments without surrounding slashes
	layout string
}

func flatten(entries []*Entry, s scope, out []ParsedRoute) []ParsedRoute {
	for _, e := range entries {
		switch e.Kind {
		case EntryRoute:
			out = append(out, ParsedRoute{Route: resolvePath(s.prefix, e.Path), FilePath: e.File, Layout: s.layout})
			if e.Children != nil {
				out = flatten(e.Children, scope{prefix: joinSegments(s.prefix, e.Path), layout: e.File}, out)
			}
		case EntryIndex:
			out = append(out, ParsedRoute{Route: resolvePath(s.prefix, "/"), FilePath: e.File, Layout: s.layout})
		case EntryLayout:
			out = flatten(e.Children, scope{prefix: s.prefix, layout: e.File}, out)
		case EntryPrefix:
			out = flatten(e.Children, scope{prefix: joinSegments(s.prefix, e.Path), layout: s.layout}, out)
		}
	}
	return out
}

// builder records the route DSL calls of a table. Nested arrays are
// flattened into the enclosing list.
type builder struct {
	entries []*Entry
}

func (b *builder) children(expr ast.ExprNode) ([]*Entry, bool) {
	array, ok := ast.Unwrap(expr).(*ast.ArrayLiteralExpr)
	if !ok {
		return nil, false
	}
	nested := &builder{entries: make([]*Entry, 0)}
	nested.VisitArray(array)
	return nested.entries, true
}

// VisitArray walks every element
func (b *builder) VisitArray(array *ast.ArrayLiteralExpr) {
	for _, element := range array.Elements {
		ast.Accept(b, element)
	}
}

// VisitSpread walks the spread argument as if it were inline
func (b *builder) VisitSpread(spread *ast.SpreadExpr) {
	n := len(b.entries)
	ast.Accept(b, spread.Argument)
	if _, ok := ast.Unwrap(spread.Argument).(*ast.CallExpr); ok && len(b.entries) == n+1 {
		b.entries[n].Spread = true
	}
}

// VisitCall interprets the route DSL helpers. Calls to anything else, or with
// arguments that are not string literals, declare nothing.
func (b *builder) VisitCall(call *ast.CallExpr) {
	args := call.Arguments

	switch call.CalleeName() {
	case "route":
		if len(args) < 2 {
			return
		}
		path, ok1 := ast.StringValue(args[0])
		file, ok2 := ast.StringValue(args[1])
		if !ok1 || !ok2 {
			return
		}
		entry := &Entry{Kind: EntryRoute, Path: path, File: file}
		for _, arg := range args[2:] {
			if kids, ok := b.children(arg); ok {
				entry.Children = kids
				break
			}
		}
		b.entries = append(b.entries, entry)
	case "index":
		if len(args) < 1 {
			return
		}
		file, ok := ast.StringValue(args[0])
		if !ok {
			return
		}
		b.entries = append(b.entries, &Entry{Kind: EntryIndex, File: file})
	case "layout":
		if len(args) < 2 {
			return
		}
		file, ok := ast.StringValue(args[0])
		if !ok {
			return
		}
		if kids, ok := b.children(args[1]); ok {
			b.entries = append(b.entries, &Entry{Kind: EntryLayout, File: file, Children: kids})
		}
	case "prefix":
		if len(args) < 2 {
			return
		}
		segment, ok := ast.StringValue(args[0])
		if !ok {
			return
		}
		if kids, ok := b.children(args[1]); ok {
			b.entries = append(b.entries, &Entry{Kind: EntryPrefix, Path: segment, Children: kids})
		}
	}
}
