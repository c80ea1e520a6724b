package parser

import "github.com/maxstack-dev/maxstack/internal/compiler/lexer"

// Type operators that prefix a type expression
var typePrefixes = map[string]bool{
	"keyof":    true,
	"typeof":   true,
	"readonly": true,
	"unique":   true,
	"infer":    true,
}

// parseType consumes a type annotation and returns its source text.
// Types carry no runtime value, so only their extent matters.
func (p *Parser) parseType() string {
	start := p.current

	p.match(lexer.TOKEN_PIPE)
	p.match(lexer.TOKEN_AMP)
	if !p.parseTypeMember() {
		p.error(p.peek(), "Expected type")
		return ""
	}
	for p.match(lexer.TOKEN_PIPE) || p.match(lexer.TOKEN_AMP) {
		if !p.parseTypeMember() {
			p.error(p.peek(), "Expected type after operator")
			break
		}
	}

	if p.checkIdentifier("extends") {
		p.advance()
		p.parseType()
		if p.consume(lexer.TOKEN_QUESTION, "Expected '?' in conditional type") {
			p.parseType()
			if p.consume(lexer.TOKEN_COLON, "Expected ':' in conditional type") {
				p.parseType()
			}
		}
	}

	return p.textSince(start)
}

func (p *Parser) parseTypeMember() bool {
	for p.check(lexer.TOKEN_IDENTIFIER) && typePrefixes[p.peek().Lexeme] && p.peekAt(1).Type == lexer.TOKEN_IDENTIFIER {
		p.advance()
	}

	if !p.parseTypeAtom() {
		return false
	}

	for {
		switch {
		case p.check(lexer.TOKEN_DOT):
			p.advance()
			if !p.match(lexer.TOKEN_IDENTIFIER) {
				p.error(p.peek(), "Expected name after '.' in type")
				return true
			}
		case p.check(lexer.TOKEN_LT):
			p.advance()
			if !p.check(lexer.TOKEN_GT) {
				p.parseType()
				for p.match(lexer.TOKEN_COMMA) {
					p.parseType()
				}
			}
			p.consume(lexer.TOKEN_GT, "Expected '>' after type arguments")
		case p.check(lexer.TOKEN_LBRACKET):
			// T[] or T[K]
			p.skipBalanced()
		default:
			return true
		}
	}
}

func (p *Parser) parseTypeAtom() bool {
	switch p.peek().Type {
	case lexer.TOKEN_IDENTIFIER, lexer.TOKEN_CONST, lexer.TOKEN_STRING_LITERAL,
		lexer.TOKEN_TEMPLATE_LITERAL, lexer.TOKEN_TEMPLATE, lexer.TOKEN_NUMBER_LITERAL:
		p.advance()
		return true
	case lexer.TOKEN_OPERATOR:
		// negative literal type: -1
		if p.peek().Lexeme == "-" && p.peekAt(1).Type == lexer.TOKEN_NUMBER_LITERAL {
			p.advance()
			p.advance()
			return true
		}
		return false
	case lexer.TOKEN_LPAREN:
		p.skipBalanced()
		if p.match(lexer.TOKEN_ARROW) {
			p.parseType()
		}
		return true
	case lexer.TOKEN_LBRACKET, lexer.TOKEN_LBRACE:
		p.skipBalanced()
		return true
	case lexer.TOKEN_LT:
		// generic function type: <T>(x: T) => T
		p.advance()
		p.parseType()
		for p.match(lexer.TOKEN_COMMA) {
			p.parseType()
		}
		p.consume(lexer.TOKEN_GT, "Expected '>' after type parameters")
		return p.parseTypeAtom()
	}
	return false
}
