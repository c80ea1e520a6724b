package parser

import (
	"strings"

	"github.com/maxstack-dev/maxstack/internal/compiler/ast"
	"github.com/maxstack-dev/maxstack/internal/compiler/lexer"
)

// Parser transforms a stream of tokens into a module AST
type Parser struct {
	tokens  []lexer.Token
	current int
	errors  []ParseError
}

// New creates a new parser for the given token stream.
// The stream must end with a TOKEN_EOF token, as produced by lexer.ScanTokens.
func New(tokens []lexer.Token) *Parser {
	return &Parser{
		tokens:  tokens,
		current: 0,
		errors:  make([]ParseError, 0),
	}
}

// Parse parses the token stream and returns the module and any errors
func (p *Parser) Parse() (*ast.Module, []ParseError) {
	module := &ast.Module{
		Exports:      make([]*ast.ExportAssignment, 0),
		Declarations: make([]*ast.VariableDecl, 0),
	}

	for !p.isAtEnd() {
		start := p.current
		p.parseStatement(module)
		if p.current == start {
			// Never stall on a token no rule consumed
			p.advance()
		}
	}

	return module, p.errors
}

func (p *Parser) parseStatement(module *ast.Module) {
	switch p.peek().Type {
	case lexer.TOKEN_IMPORT:
		p.skipImport()
	case lexer.TOKEN_EXPORT:
		p.parseExport(module)
	case lexer.TOKEN_CONST, lexer.TOKEN_LET, lexer.TOKEN_VAR:
		module.Declarations = append(module.Declarations, p.parseVariableDecl(false)...)
	case lexer.TOKEN_SEMICOLON:
		p.advance()
	default:
		p.skipStatement()
	}
}

// skipImport consumes an import declaration up to and including its module specifier
func (p *Parser) skipImport() {
	p.advance() // import

	if p.check(lexer.TOKEN_LPAREN) || p.check(lexer.TOKEN_DOT) {
		// import('x') / import.meta used as an expression statement
		p.skipStatement()
		return
	}

	for !p.isAtEnd() {
		if p.match(lexer.TOKEN_STRING_LITERAL) {
			p.match(lexer.TOKEN_RPAREN) // import x = require('y')
			break
		}
		if p.check(lexer.TOKEN_SEMICOLON) || p.startsStatement() {
			p.error(p.peek(), "Expected module specifier in import declaration")
			break
		}
		p.advance()
	}

	p.match(lexer.TOKEN_SEMICOLON)
}

// parseExport parses export assignments and exported declarations; every
// other export form is skipped.
func (p *Parser) parseExport(module *ast.Module) {
	exportToken := p.advance()

	switch {
	case p.match(lexer.TOKEN_DEFAULT):
		if p.check(lexer.TOKEN_FUNCTION) || p.check(lexer.TOKEN_CLASS) {
			p.skipStatement()
			return
		}
		expr := p.parseExpression()
		if expr == nil {
			p.error(p.peek(), "Expected expression after 'export default'")
			p.skipStatement()
			return
		}
		module.Exports = append(module.Exports, &ast.ExportAssignment{
			Expr: expr,
			Loc:  ast.TokenLocation(exportToken),
		})
		p.match(lexer.TOKEN_SEMICOLON)
	case p.match(lexer.TOKEN_EQUALS):
		expr := p.parseExpression()
		if expr == nil {
			p.error(p.peek(), "Expected expression after 'export ='")
			p.skipStatement()
			return
		}
		module.Exports = append(module.Exports, &ast.ExportAssignment{
			IsExportEquals: true,
			Expr:           expr,
			Loc:            ast.TokenLocation(exportToken),
		})
		p.match(lexer.TOKEN_SEMICOLON)
	case p.check(lexer.TOKEN_CONST) || p.check(lexer.TOKEN_LET) || p.check(lexer.TOKEN_VAR):
		module.Declarations = append(module.Declarations, p.parseVariableDecl(true)...)
	default:
		p.skipStatement()
	}
}

// parseVariableDecl parses `const a: T = x, b = y`
func (p *Parser) parseVariableDecl(exported bool) []*ast.VariableDecl {
	kindToken := p.advance()
	decls := make([]*ast.VariableDecl, 0, 1)

	for {
		if !p.check(lexer.TOKEN_IDENTIFIER) {
			// Destructuring patterns are not modelled
			p.skipStatement()
			return decls
		}
		nameToken := p.advance()
		decl := &ast.VariableDecl{
			Kind:     kindToken.Lexeme,
			Name:     nameToken.Lexeme,
			Exported: exported,
			Loc:      ast.TokenLocation(nameToken),
		}

		p.match(lexer.TOKEN_BANG) // definite assignment
		if p.match(lexer.TOKEN_COLON) {
			p.parseType()
		}
		if p.match(lexer.TOKEN_EQUALS) {
			decl.Init = p.parseExpression()
			if decl.Init == nil {
				p.error(p.peek(), "Expected initializer")
			}
		}
		decls = append(decls, decl)

		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}

	if !p.match(lexer.TOKEN_SEMICOLON) && !p.isAtEnd() && !p.startsStatement() && !p.check(lexer.TOKEN_RBRACE) {
		p.skipStatement()
	}
	return decls
}

// skipStatement consumes tokens until the end of the current statement:
// a semicolon at bracket depth zero, or the start of the next top-level
// declaration once the brackets are balanced.
func (p *Parser) skipStatement() {
	depth := 0
	consumed := false

	for !p.isAtEnd() {
		tok := p.peek()
		if depth == 0 {
			if tok.Type == lexer.TOKEN_SEMICOLON {
				p.advance()
				return
			}
			if consumed && p.startsStatement() {
				return
			}
		}

		switch tok.Type {
		case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACKET, lexer.TOKEN_LBRACE:
			depth++
		case lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACKET, lexer.TOKEN_RBRACE:
			if depth > 0 {
				depth--
			}
		}
		p.advance()
		consumed = true
	}
}

func (p *Parser) startsStatement() bool {
	switch p.peek().Type {
	case lexer.TOKEN_IMPORT, lexer.TOKEN_EXPORT, lexer.TOKEN_CONST, lexer.TOKEN_LET, lexer.TOKEN_VAR:
		return true
	}
	return false
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TOKEN_EOF
}

func (p *Parser) peek() lexer.Token {
	if p.current >= len(p.tokens) {
		return lexer.Token{Type: lexer.TOKEN_EOF}
	}
	return p.tokens[p.current]
}

func (p *Parser) peekAt(offset int) lexer.Token {
	if p.current+offset >= len(p.tokens) {
		return lexer.Token{Type: lexer.TOKEN_EOF}
	}
	return p.tokens[p.current+offset]
}

func (p *Parser) previous() lexer.Token {
	if p.current == 0 {
		return p.peek()
	}
	return p.tokens[p.current-1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.peek().Type == tokenType
}

func (p *Parser) checkIdentifier(name string) bool {
	tok := p.peek()
	return tok.Type == lexer.TOKEN_IDENTIFIER && tok.Lexeme == name
}

func (p *Parser) match(tokenType lexer.TokenType) bool {
	if p.check(tokenType) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(tokenType lexer.TokenType, message string) bool {
	if p.match(tokenType) {
		return true
	}
	p.error(p.peek(), message)
	return false
}

func (p *Parser) error(tok lexer.Token, message string) {
	p.errors = append(p.errors, NewParseError(message, tok))
}

// textSince joins the lexemes consumed since token index start
func (p *Parser) textSince(start int) string {
	parts := make([]string, 0, p.current-start)
	for i := start; i < p.current && i < len(p.tokens); i++ {
		parts = append(parts, p.tokens[i].Lexeme)
	}
	return strings.Join(parts, " ")
}
