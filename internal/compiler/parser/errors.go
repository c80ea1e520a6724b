// Package parser implements a recursive descent parser for the TypeScript
// module subset route manifests are written in. It never gives up on a file:
// statements and expressions it does not model are skipped or kept as opaque
// nodes, and the problems encountered are reported as ParseErrors.
package parser

import (
	"fmt"

	"github.com/maxstack-dev/maxstack/internal/compiler/ast"
	"github.com/maxstack-dev/maxstack/internal/compiler/lexer"
)

// ParseError represents an error encountered during parsing
type ParseError struct {
	Message  string
	Location ast.SourceLocation
	Token    lexer.Token
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("Parse error at %d:%d: %s (near '%s')",
		e.Location.Line, e.Location.Column, e.Message, e.Token.Lexeme)
}

// NewParseError creates a new parse error
func NewParseError(message string, token lexer.Token) ParseError {
	return ParseError{
		Message:  message,
		Location: ast.TokenLocation(token),
		Token:    token,
	}
}
