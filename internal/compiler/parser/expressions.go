package parser

import (
	"github.com/maxstack-dev/maxstack/internal/compiler/ast"
	"github.com/maxstack-dev/maxstack/internal/compiler/lexer"
)

// parseExpression parses an assignment-level expression. Array literals,
// calls, member access, spreads and type assertions are modelled; anything
// else collapses into an OpaqueExpr spanning the skipped tokens.
func (p *Parser) parseExpression() ast.ExprNode {
	start := p.current
	expr := p.parsePrefix()
	if expr == nil {
		return nil
	}

	for {
		switch {
		case p.checkIdentifier("as"):
			tok := p.advance()
			expr = &ast.AsExpr{Expr: expr, Type: p.parseType(), Loc: ast.TokenLocation(tok)}
		case p.checkIdentifier("satisfies"):
			tok := p.advance()
			expr = &ast.SatisfiesExpr{Expr: expr, Type: p.parseType(), Loc: ast.TokenLocation(tok)}
		case p.continuesExpression():
			p.skipExpression()
			return &ast.OpaqueExpr{Text: p.textSince(start), Loc: expr.Location()}
		default:
			return expr
		}
	}
}

func (p *Parser) continuesExpression() bool {
	switch p.peek().Type {
	case lexer.TOKEN_OPERATOR, lexer.TOKEN_QUESTION, lexer.TOKEN_ARROW,
		lexer.TOKEN_LT, lexer.TOKEN_GT, lexer.TOKEN_PIPE, lexer.TOKEN_AMP, lexer.TOKEN_EQUALS:
		return true
	}
	return false
}

// skipExpression consumes tokens up to the next list delimiter or closing
// bracket at depth zero, leaving that delimiter in place.
func (p *Parser) skipExpression() {
	depth := 0
	for !p.isAtEnd() {
		switch p.peek().Type {
		case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACKET, lexer.TOKEN_LBRACE:
			depth++
		case lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACKET, lexer.TOKEN_RBRACE:
			if depth == 0 {
				return
			}
			depth--
		case lexer.TOKEN_COMMA, lexer.TOKEN_SEMICOLON:
			if depth == 0 {
				return
			}
		default:
			if depth == 0 && p.startsStatement() {
				return
			}
		}
		p.advance()
	}
}

// skipBalanced consumes an opening bracket and everything up to its match
func (p *Parser) skipBalanced() {
	depth := 0
	for !p.isAtEnd() {
		switch p.advance().Type {
		case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACKET, lexer.TOKEN_LBRACE:
			depth++
		case lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACKET, lexer.TOKEN_RBRACE:
			depth--
			if depth <= 0 {
				return
			}
		}
	}
}

func (p *Parser) parsePrefix() ast.ExprNode {
	tok := p.peek()

	switch tok.Type {
	case lexer.TOKEN_LT:
		p.advance()
		typ := p.parseType()
		if !p.consume(lexer.TOKEN_GT, "Expected '>' after type assertion") {
			return nil
		}
		expr := p.parsePrefix()
		if expr == nil {
			p.error(p.peek(), "Expected expression after type assertion")
			return nil
		}
		return &ast.TypeAssertionExpr{Type: typ, Expr: expr, Loc: ast.TokenLocation(tok)}
	case lexer.TOKEN_ELLIPSIS:
		p.advance()
		arg := p.parseExpression()
		if arg == nil {
			p.error(p.peek(), "Expected expression after '...'")
			return nil
		}
		return &ast.SpreadExpr{Argument: arg, Loc: ast.TokenLocation(tok)}
	case lexer.TOKEN_BANG, lexer.TOKEN_OPERATOR:
		// Unary operators (!x, -1, typeof is an identifier and handled below)
		start := p.current
		p.advance()
		if p.parsePrefix() == nil {
			return nil
		}
		return &ast.OpaqueExpr{Text: p.textSince(start), Loc: ast.TokenLocation(tok)}
	}

	primary := p.parsePrimary()
	if primary == nil {
		return nil
	}
	return p.parseCallTail(primary)
}

func (p *Parser) parsePrimary() ast.ExprNode {
	tok := p.peek()
	start := p.current

	switch tok.Type {
	case lexer.TOKEN_STRING_LITERAL, lexer.TOKEN_TEMPLATE_LITERAL:
		p.advance()
		return &ast.StringLiteral{Value: tok.Literal, Raw: tok.Lexeme, Loc: ast.TokenLocation(tok)}
	case lexer.TOKEN_TEMPLATE, lexer.TOKEN_NUMBER_LITERAL:
		p.advance()
		return &ast.OpaqueExpr{Text: tok.Lexeme, Loc: ast.TokenLocation(tok)}
	case lexer.TOKEN_IDENTIFIER:
		p.advance()
		if p.check(lexer.TOKEN_ARROW) {
			p.skipArrowBody()
			return &ast.OpaqueExpr{Text: p.textSince(start), Loc: ast.TokenLocation(tok)}
		}
		return &ast.Identifier{Name: tok.Lexeme, Loc: ast.TokenLocation(tok)}
	case lexer.TOKEN_LBRACKET:
		p.advance()
		elements := p.parseList(lexer.TOKEN_RBRACKET, "Expected ']' after array elements")
		return &ast.ArrayLiteralExpr{Elements: elements, Loc: ast.TokenLocation(tok)}
	case lexer.TOKEN_LPAREN:
		if p.isArrowFunction() {
			p.skipBalanced()
			if p.match(lexer.TOKEN_COLON) {
				p.parseType()
			}
			p.skipArrowBody()
			return &ast.OpaqueExpr{Text: p.textSince(start), Loc: ast.TokenLocation(tok)}
		}
		p.advance()
		inner := p.parseExpression()
		if inner == nil {
			p.error(p.peek(), "Expected expression after '('")
			return nil
		}
		if !p.consume(lexer.TOKEN_RPAREN, "Expected ')' after expression") {
			return nil
		}
		return &ast.ParenExpr{Expr: inner, Loc: ast.TokenLocation(tok)}
	case lexer.TOKEN_LBRACE:
		p.skipBalanced()
		return &ast.OpaqueExpr{Text: p.textSince(start), Loc: ast.TokenLocation(tok)}
	case lexer.TOKEN_FUNCTION, lexer.TOKEN_CLASS:
		p.advance()
		for !p.isAtEnd() && !p.check(lexer.TOKEN_LBRACE) {
			p.advance()
		}
		p.skipBalanced()
		return &ast.OpaqueExpr{Text: p.textSince(start), Loc: ast.TokenLocation(tok)}
	}

	return nil
}

// parseCallTail applies call, member, index and non-null suffixes
func (p *Parser) parseCallTail(expr ast.ExprNode) ast.ExprNode {
	for {
		tok := p.peek()

		switch {
		case tok.Type == lexer.TOKEN_LPAREN:
			p.advance()
			args := p.parseList(lexer.TOKEN_RPAREN, "Expected ')' after arguments")
			expr = &ast.CallExpr{Callee: expr, Arguments: args, Loc: expr.Location()}
		case tok.Type == lexer.TOKEN_DOT || (tok.Type == lexer.TOKEN_OPERATOR && tok.Lexeme == "?."):
			p.advance()
			if p.check(lexer.TOKEN_LPAREN) || p.check(lexer.TOKEN_LBRACKET) {
				// optional call or index: x?.(...) / x?.[...]
				start := p.current
				p.skipBalanced()
				expr = &ast.OpaqueExpr{Text: p.textSince(start), Loc: expr.Location()}
				continue
			}
			name := p.advance()
			if name.Type == lexer.TOKEN_EOF {
				p.error(name, "Expected property name after '.'")
				return expr
			}
			expr = &ast.MemberExpr{Object: expr, Property: name.Lexeme, Loc: ast.TokenLocation(name)}
		case tok.Type == lexer.TOKEN_LBRACKET:
			start := p.current
			p.skipBalanced()
			expr = &ast.OpaqueExpr{Text: p.textSince(start), Loc: expr.Location()}
		case tok.Type == lexer.TOKEN_BANG:
			p.advance()
			expr = &ast.NonNullExpr{Expr: expr, Loc: expr.Location()}
		case tok.Type == lexer.TOKEN_TEMPLATE || tok.Type == lexer.TOKEN_TEMPLATE_LITERAL:
			// tagged template
			p.advance()
			expr = &ast.OpaqueExpr{Text: tok.Lexeme, Loc: expr.Location()}
		case tok.Type == lexer.TOKEN_LT && p.isGenericCall():
			p.advance()
			p.parseType()
			for p.match(lexer.TOKEN_COMMA) {
				p.parseType()
			}
			p.consume(lexer.TOKEN_GT, "Expected '>' after type arguments")
		default:
			return expr
		}
	}
}

// parseList parses comma separated expressions up to the closing token.
// Elided elements are dropped and a trailing comma is allowed.
func (p *Parser) parseList(closing lexer.TokenType, message string) []ast.ExprNode {
	elements := make([]ast.ExprNode, 0)

	for !p.check(closing) && !p.isAtEnd() {
		if p.match(lexer.TOKEN_COMMA) {
			continue
		}

		expr := p.parseExpression()
		if expr == nil {
			p.error(p.peek(), "Expected expression")
			p.skipExpression()
			if !p.check(lexer.TOKEN_COMMA) && !p.check(closing) {
				// Unbalanced closing bracket or next statement: give up on the list
				return elements
			}
			continue
		}
		elements = append(elements, expr)

		if !p.check(closing) && !p.match(lexer.TOKEN_COMMA) {
			p.error(p.peek(), message)
			return elements
		}
	}

	p.consume(closing, message)
	return elements
}

// isArrowFunction reports whether the parenthesis at the cursor opens an
// arrow function parameter list.
func (p *Parser) isArrowFunction() bool {
	depth := 0
	for i := p.current; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case lexer.TOKEN_LPAREN, lexer.TOKEN_LBRACKET, lexer.TOKEN_LBRACE:
			depth++
		case lexer.TOKEN_RPAREN, lexer.TOKEN_RBRACKET, lexer.TOKEN_RBRACE:
			depth--
			if depth == 0 {
				if i+1 >= len(p.tokens) {
					return false
				}
				next := p.tokens[i+1].Type
				return next == lexer.TOKEN_ARROW || next == lexer.TOKEN_COLON
			}
		case lexer.TOKEN_EOF:
			return false
		}
	}
	return false
}

// isGenericCall reports whether `<` at the cursor starts type arguments
// followed by a call, as in useState<string>('').
func (p *Parser) isGenericCall() bool {
	saved := p.current
	errCount := len(p.errors)
	defer func() {
		p.current = saved
		p.errors = p.errors[:errCount]
	}()

	p.advance()
	if p.parseType() == "" {
		return false
	}
	for p.match(lexer.TOKEN_COMMA) {
		p.parseType()
	}
	return p.match(lexer.TOKEN_GT) && p.check(lexer.TOKEN_LPAREN)
}

// skipArrowBody consumes `=> body`
func (p *Parser) skipArrowBody() {
	if !p.match(lexer.TOKEN_ARROW) {
		return
	}
	if p.check(lexer.TOKEN_LBRACE) {
		p.skipBalanced()
		return
	}
	p.skipExpression()
}
