// Package lexer provides lexical analysis for TypeScript modules.
// It covers the subset of the language that route manifests are written in:
// identifiers, keywords, string/template/number literals, punctuation and
// operators. Comments and whitespace are skipped.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes TypeScript source code.
//
// Lexer instances are NOT thread-safe; create one per source via New().
type Lexer struct {
	source      string     // Source code to tokenize
	start       int        // Start offset of current token
	current     int        // Current offset in source
	line        int        // Current line number (1-indexed)
	column      int        // Current column number (1-indexed)
	startLine   int        // Line where the current token starts
	startColumn int        // Column where the current token starts
	tokens      []Token    // Collected tokens
	errors      []LexError // Collected errors
}

// New creates a new Lexer for the given source code
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		tokens: make([]Token, 0),
		errors: make([]LexError, 0),
	}
}

// ScanTokens tokenizes the entire source and returns tokens and errors
func (l *Lexer) ScanTokens() ([]Token, []LexError) {
	for !l.isAtEnd() {
		l.start = l.current
		l.startLine = l.line
		l.startColumn = l.column
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{
		Type:   TOKEN_EOF,
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens, l.errors
}

//nolint:gocyclo,cyclop // Lexer dispatch function - complexity is inherent to the pattern
func (l *Lexer) scanToken() {
	c := l.advance()

	switch {
	case c == '(' || c == ')' || c == '{' || c == '}' || c == '[' || c == ']':
		l.scanDelimiter(c)
	case c == ',':
		l.addToken(TOKEN_COMMA)
	case c == ';':
		l.addToken(TOKEN_SEMICOLON)
	case c == ':':
		l.addToken(TOKEN_COLON)
	case c == '.':
		l.scanDot()
	case c == '\'' || c == '"':
		l.string(c)
	case c == '`':
		l.template()
	case c == '/':
		l.scanSlash()
	case c == '\n':
		l.line++
		l.column = 1
	case c == ' ' || c == '\r' || c == '\t' || c == '\f' || c == '\v':
		// Ignore whitespace
	case isDigit(c):
		l.number()
	case isIdentifierStart(c):
		l.identifier()
	case c >= utf8.RuneSelf:
		l.scanUnicode()
	default:
		l.scanOperator(c)
	}
}

// scanDelimiter handles delimiter tokens: ( ) { } [ ]
func (l *Lexer) scanDelimiter(c byte) {
	switch c {
	case '(':
		l.addToken(TOKEN_LPAREN)
	case ')':
		l.addToken(TOKEN_RPAREN)
	case '{':
		l.addToken(TOKEN_LBRACE)
	case '}':
		l.addToken(TOKEN_RBRACE)
	case '[':
		l.addToken(TOKEN_LBRACKET)
	case ']':
		l.addToken(TOKEN_RBRACKET)
	}
}

// scanDot handles ., ... and numbers like .5
func (l *Lexer) scanDot() {
	if l.peek() == '.' && l.peekNext() == '.' {
		l.advance()
		l.advance()
		l.addToken(TOKEN_ELLIPSIS)
		return
	}
	if isDigit(l.peek()) {
		l.number()
		return
	}
	l.addToken(TOKEN_DOT)
}

// scanSlash handles comments and the division operators
func (l *Lexer) scanSlash() {
	switch l.peek() {
	case '/':
		for l.peek() != '\n' && !l.isAtEnd() {
			l.advance()
		}
	case '*':
		l.advance()
		for !l.isAtEnd() {
			if l.peek() == '*' && l.peekNext() == '/' {
				l.advance()
				l.advance()
				return
			}
			l.advanceTrackingLines()
		}
		l.addError("Unterminated block comment")
	default:
		l.match('=')
		l.addToken(TOKEN_OPERATOR)
	}
}

// scanOperator handles the remaining punctuators
func (l *Lexer) scanOperator(c byte) {
	switch c {
	case '=':
		switch {
		case l.match('>'):
			l.addToken(TOKEN_ARROW)
		case l.match('='):
			l.match('=')
			l.addToken(TOKEN_OPERATOR)
		default:
			l.addToken(TOKEN_EQUALS)
		}
	case '<':
		l.addToken(TOKEN_LT)
	case '>':
		l.addToken(TOKEN_GT)
	case '!':
		if l.match('=') {
			l.match('=')
			l.addToken(TOKEN_OPERATOR)
			return
		}
		l.addToken(TOKEN_BANG)
	case '?':
		if l.match('?') || (l.peek() == '.' && !isDigit(l.peekNext()) && l.match('.')) {
			l.match('=')
			l.addToken(TOKEN_OPERATOR)
			return
		}
		l.addToken(TOKEN_QUESTION)
	case '|':
		if l.match('|') {
			l.match('=')
			l.addToken(TOKEN_OPERATOR)
			return
		}
		if l.match('=') {
			l.addToken(TOKEN_OPERATOR)
			return
		}
		l.addToken(TOKEN_PIPE)
	case '&':
		if l.match('&') {
			l.match('=')
			l.addToken(TOKEN_OPERATOR)
			return
		}
		if l.match('=') {
			l.addToken(TOKEN_OPERATOR)
			return
		}
		l.addToken(TOKEN_AMP)
	case '+', '-', '*', '%', '^', '~', '@', '#':
		// Compound forms (++, +=, **, ...) are not distinguished
		for l.peek() == c || l.peek() == '=' {
			l.advance()
		}
		l.addToken(TOKEN_OPERATOR)
	default:
		l.addError("Unexpected character: " + string(c))
	}
}

// scanUnicode handles non-ASCII input: identifiers, unicode whitespace or errors
func (l *Lexer) scanUnicode() {
	r, size := utf8.DecodeRuneInString(l.source[l.start:])
	// advance() consumed one byte; consume the rest of the rune
	for i := 1; i < size; i++ {
		l.current++
	}

	switch {
	case unicode.IsLetter(r):
		l.identifier()
	case unicode.IsSpace(r):
		if r == '\u2028' || r == '\u2029' {
			l.line++
			l.column = 1
		}
	default:
		l.addError("Unexpected character: " + string(r))
	}
}

// string scans a single- or double-quoted string literal
func (l *Lexer) string(quote byte) {
	var value strings.Builder

	for !l.isAtEnd() && l.peek() != quote {
		c := l.peek()
		if c == '\n' {
			l.addError("Unterminated string")
			return
		}
		if c == '\\' {
			l.advance()
			l.escape(&value)
			continue
		}
		l.advance()
		value.WriteByte(c)
	}

	if l.isAtEnd() {
		l.addError("Unterminated string")
		return
	}

	l.advance() // Closing quote
	l.addTokenWithLiteral(TOKEN_STRING_LITERAL, value.String())
}

// template scans a template literal. Literals without substitutions are
// decoded; literals with substitutions are kept as raw text.
func (l *Lexer) template() {
	var value strings.Builder
	substitutions := false

	for !l.isAtEnd() && l.peek() != '`' {
		c := l.peek()
		switch {
		case c == '\\':
			l.advance()
			l.escape(&value)
		case c == '$' && l.peekNext() == '{':
			substitutions = true
			l.advance()
			l.advance()
			l.skipSubstitution()
		default:
			l.advanceTrackingLines()
			value.WriteByte(c)
		}
	}

	if l.isAtEnd() {
		l.addError("Unterminated template literal")
		return
	}

	l.advance() // Closing backtick
	if substitutions {
		l.addToken(TOKEN_TEMPLATE)
		return
	}
	l.addTokenWithLiteral(TOKEN_TEMPLATE_LITERAL, value.String())
}

// skipSubstitution consumes the body of a ${...} substitution
func (l *Lexer) skipSubstitution() {
	depth := 1
	for !l.isAtEnd() && depth > 0 {
		switch l.peek() {
		case '{':
			depth++
		case '}':
			depth--
		}
		l.advanceTrackingLines()
	}
}

// escape decodes one escape sequence; the backslash is already consumed
func (l *Lexer) escape(value *strings.Builder) {
	if l.isAtEnd() {
		return
	}
	c := l.advance()
	switch c {
	case 'n':
		value.WriteByte('\n')
	case 't':
		value.WriteByte('\t')
	case 'r':
		value.WriteByte('\r')
	case 'b':
		value.WriteByte('\b')
	case 'f':
		value.WriteByte('\f')
	case 'v':
		value.WriteByte('\v')
	case '0':
		value.WriteByte(0)
	case '\n':
		// Line continuation
		l.line++
		l.column = 1
	case 'x':
		l.hexEscape(value, 2)
	case 'u':
		if l.match('{') {
			start := l.current
			for !l.isAtEnd() && l.peek() != '}' {
				l.advance()
			}
			digits := l.source[start:l.current]
			l.match('}')
			l.writeCodePoint(value, digits)
			return
		}
		l.hexEscape(value, 4)
	default:
		value.WriteByte(c)
	}
}

func (l *Lexer) hexEscape(value *strings.Builder, n int) {
	start := l.current
	for i := 0; i < n && !l.isAtEnd(); i++ {
		l.advance()
	}
	l.writeCodePoint(value, l.source[start:l.current])
}

func (l *Lexer) writeCodePoint(value *strings.Builder, digits string) {
	code, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		l.addError("Invalid escape sequence: " + digits)
		return
	}
	value.WriteRune(rune(code))
}

// number scans a numeric literal (decimal, hex, octal, binary, separators)
func (l *Lexer) number() {
	for isIdentifierPart(l.peek()) || l.peek() == '.' {
		l.advance()
	}
	l.addToken(TOKEN_NUMBER_LITERAL)
}

// identifier scans an identifier or keyword
func (l *Lexer) identifier() {
	for !l.isAtEnd() {
		c := l.peek()
		if isIdentifierPart(c) {
			l.advance()
			continue
		}
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(l.source[l.current:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				l.current += size
				l.column++
				continue
			}
		}
		break
	}

	text := l.source[l.start:l.current]
	if tokenType, ok := keywords[text]; ok {
		l.addToken(tokenType)
		return
	}
	l.addToken(TOKEN_IDENTIFIER)
}

func (l *Lexer) addToken(tokenType TokenType) {
	l.addTokenWithLiteral(tokenType, "")
}

func (l *Lexer) addTokenWithLiteral(tokenType TokenType, literal string) {
	l.tokens = append(l.tokens, Token{
		Type:    tokenType,
		Lexeme:  l.source[l.start:l.current],
		Literal: literal,
		Line:    l.startLine,
		Column:  l.startColumn,
	})
}

func (l *Lexer) addError(message string) {
	l.errors = append(l.errors, LexError{
		Message: message,
		Line:    l.startLine,
		Column:  l.startColumn,
	})
	l.tokens = append(l.tokens, Token{
		Type:   TOKEN_ERROR,
		Lexeme: l.source[l.start:l.current],
		Line:   l.startLine,
		Column: l.startColumn,
	})
}

func (l *Lexer) advance() byte {
	c := l.source[l.current]
	l.current++
	l.column++
	return c
}

func (l *Lexer) advanceTrackingLines() {
	if l.advance() == '\n' {
		l.line++
		l.column = 1
	}
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentifierStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func isIdentifierPart(c byte) bool {
	return isIdentifierStart(c) || isDigit(c)
}
