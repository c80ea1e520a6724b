// Package ast defines the Abstract Syntax Tree (AST) node types for the
// TypeScript module subset used by route manifests: export assignments,
// top-level variable declarations and the expressions they hold.
package ast

import "github.com/maxstack-dev/maxstack/internal/compiler/lexer"

// SourceLocation tracks the position of an AST node in source code
type SourceLocation struct {
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)
}

// TokenLocation returns the location of a token
func TokenLocation(tok lexer.Token) SourceLocation {
	return SourceLocation{Line: tok.Line, Column: tok.Column}
}

// Node is the base interface for all AST nodes
type Node interface {
	Location() SourceLocation
	node()
}

// ExprNode is implemented by every expression node
type ExprNode interface {
	Node
	exprNode()
}

// Module is the root node of the AST
type Module struct {
	Exports      []*ExportAssignment
	Declarations []*VariableDecl
}

func (m *Module) node() {}

// Location returns the source location of the module node in the AST.
func (m *Module) Location() SourceLocation {
	return SourceLocation{Line: 1, Column: 1}
}

// Lookup returns the initializer of the top-level declaration named name.
// Later declarations shadow earlier ones.
func (m *Module) Lookup(name string) (ExprNode, bool) {
	for i := len(m.Declarations) - 1; i >= 0; i-- {
		if m.Declarations[i].Name == name && m.Declarations[i].Init != nil {
			return m.Declarations[i].Init, true
		}
	}
	return nil, false
}

// ExportAssignment represents `export default <expr>` or `export = <expr>`
type ExportAssignment struct {
	IsExportEquals bool
	Expr           ExprNode
	Loc            SourceLocation
}

func (e *ExportAssignment) node() {}

// Location returns the source location of the export node in the AST.
func (e *ExportAssignment) Location() SourceLocation {
	return e.Loc
}

// VariableDecl represents a top-level `const|let|var name = init`
type VariableDecl struct {
	Kind     string // const, let or var
	Name     string
	Init     ExprNode
	Exported bool
	Loc      SourceLocation
}

func (v *VariableDecl) node() {}

// Location returns the source location of the declaration node in the AST.
func (v *VariableDecl) Location() SourceLocation {
	return v.Loc
}

// Identifier represents a name reference
type Identifier struct {
	Name string
	Loc  SourceLocation
}

func (i *Identifier) node()     {}
func (i *Identifier) exprNode() {}

func (i *Identifier) Location() SourceLocation {
	return i.Loc
}

// StringLiteral represents a string or substitution-free template literal
type StringLiteral struct {
	Value string // Decoded value
	Raw   string // Source text including quotes
	Loc   SourceLocation
}

func (s *StringLiteral) node()     {}
func (s *StringLiteral) exprNode() {}

func (s *StringLiteral) Location() SourceLocation {
	return s.Loc
}

// ArrayLiteralExpr represents an array literal [a, b, ...c]
type ArrayLiteralExpr struct {
	Elements []ExprNode // Holes are omitted
	Loc      SourceLocation
}

func (a *ArrayLiteralExpr) node()     {}
func (a *ArrayLiteralExpr) exprNode() {}

func (a *ArrayLiteralExpr) Location() SourceLocation {
	return a.Loc
}

// CallExpr represents a function call route('/a', 'a.tsx')
type CallExpr struct {
	Callee    ExprNode
	Arguments []ExprNode
	Loc       SourceLocation
}

func (c *CallExpr) node()     {}
func (c *CallExpr) exprNode() {}

func (c *CallExpr) Location() SourceLocation {
	return c.Loc
}

// CalleeName returns the callee identifier, or "" when the callee is not a
// plain identifier (member access, call result, ...).
func (c *CallExpr) CalleeName() string {
	if id, ok := c.Callee.(*Identifier); ok {
		return id.Name
	}
	return ""
}

// MemberExpr represents property access (routes.default)
type MemberExpr struct {
	Object   ExprNode
	Property string
	Loc      SourceLocation
}

func (m *MemberExpr) node()     {}
func (m *MemberExpr) exprNode() {}

func (m *MemberExpr) Location() SourceLocation {
	return m.Loc
}

// SpreadExpr represents a spread element ...prefix('a', [])
type SpreadExpr struct {
	Argument ExprNode
	Loc      SourceLocation
}

func (s *SpreadExpr) node()     {}
func (s *SpreadExpr) exprNode() {}

func (s *SpreadExpr) Location() SourceLocation {
	return s.Loc
}

// ParenExpr represents a parenthesized expression
type ParenExpr struct {
	Expr ExprNode
	Loc  SourceLocation
}

func (p *ParenExpr) node()     {}
func (p *ParenExpr) exprNode() {}

func (p *ParenExpr) Location() SourceLocation {
	return p.Loc
}

// AsExpr represents `expr as Type`
type AsExpr struct {
	Expr ExprNode
	Type string
	Loc  SourceLocation
}

func (a *AsExpr) node()     {}
func (a *AsExpr) exprNode() {}

func (a *AsExpr) Location() SourceLocation {
	return a.Loc
}

// SatisfiesExpr represents `expr satisfies Type`
type SatisfiesExpr struct {
	Expr ExprNode
	Type string
	Loc  SourceLocation
}

func (s *SatisfiesExpr) node()     {}
func (s *SatisfiesExpr) exprNode() {}

func (s *SatisfiesExpr) Location() SourceLocation {
	return s.Loc
}

// TypeAssertionExpr represents the angle-bracket form `<Type>expr`
type TypeAssertionExpr struct {
	Type string
	Expr ExprNode
	Loc  SourceLocation
}

func (t *TypeAssertionExpr) node()     {}
func (t *TypeAssertionExpr) exprNode() {}

func (t *TypeAssertionExpr) Location() SourceLocation {
	return t.Loc
}

// NonNullExpr represents `expr!`
type NonNullExpr struct {
	Expr ExprNode
	Loc  SourceLocation
}

func (n *NonNullExpr) node()     {}
func (n *NonNullExpr) exprNode() {}

func (n *NonNullExpr) Location() SourceLocation {
	return n.Loc
}

// OpaqueExpr stands in for any expression the parser does not model
// (object literals, arrow functions, binary expressions, ...).
type OpaqueExpr struct {
	Text string
	Loc  SourceLocation
}

func (o *OpaqueExpr) node()     {}
func (o *OpaqueExpr) exprNode() {}

func (o *OpaqueExpr) Location() SourceLocation {
	return o.Loc
}

// Unwrap strips wrappers that do not change an expression's runtime value:
// parentheses, `as`, `satisfies`, `<T>` assertions and non-null assertions.
func Unwrap(expr ExprNode) ExprNode {
	for {
		switch e := expr.(type) {
		case *ParenExpr:
			expr = e.Expr
		case *AsExpr:
			expr = e.Expr
		case *SatisfiesExpr:
			expr = e.Expr
		case *TypeAssertionExpr:
			expr = e.Expr
		case *NonNullExpr:
			expr = e.Expr
		default:
			return expr
		}
	}
}

// StringValue returns the value of a string literal argument
func StringValue(expr ExprNode) (string, bool) {
	if s, ok := Unwrap(expr).(*StringLiteral); ok {
		return s.Value, true
	}
	return "", false
}

// Visitor walks the expression kinds that make up a route table
type Visitor interface {
	VisitArray(*ArrayLiteralExpr)
	VisitCall(*CallExpr)
	VisitSpread(*SpreadExpr)
}

// Accept dispatches expr to the matching Visitor method. Type-only wrappers
// are unwrapped first; other node kinds are ignored.
func Accept(v Visitor, expr ExprNode) {
	switch e := Unwrap(expr).(type) {
	case *ArrayLiteralExpr:
		v.VisitArray(e)
	case *CallExpr:
		v.VisitCall(e)
	case *SpreadExpr:
		v.VisitSpread(e)
	}
}
