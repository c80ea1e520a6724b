package lexer

import "fmt"

// TokenType represents the type of a token in a TypeScript module
type TokenType int

const (
	// TOKEN_EOF marks the end of the token stream.
	TOKEN_EOF TokenType = iota
	// TOKEN_ERROR represents a lexical error encountered during scanning.
	TOKEN_ERROR

	// Literals
	TOKEN_IDENTIFIER       // route, RouteConfig, $foo
	TOKEN_STRING_LITERAL   // 'routes/home.tsx', "x"
	TOKEN_TEMPLATE_LITERAL // `no substitutions`
	TOKEN_TEMPLATE         // `with ${substitutions}`
	TOKEN_NUMBER_LITERAL   // 42, 0x1f, 1_000, 3.14

	// Keywords
	TOKEN_IMPORT   // import
	TOKEN_EXPORT   // export
	TOKEN_DEFAULT  // default
	TOKEN_CONST    // const
	TOKEN_LET      // let
	TOKEN_VAR      // var
	TOKEN_FUNCTION // function
	TOKEN_CLASS    // class

	// Delimiters
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_LBRACE    // {
	TOKEN_RBRACE    // }
	TOKEN_LBRACKET  // [
	TOKEN_RBRACKET  // ]
	TOKEN_COMMA     // ,
	TOKEN_SEMICOLON // ;
	TOKEN_DOT       // .
	TOKEN_ELLIPSIS  // ...
	TOKEN_COLON     // :

	// Operators
	TOKEN_QUESTION // ?
	TOKEN_BANG     // !
	TOKEN_EQUALS   // =
	TOKEN_LT       // <
	TOKEN_GT       // >
	TOKEN_ARROW    // =>
	TOKEN_PIPE     // |
	TOKEN_AMP      // &
	TOKEN_OPERATOR // any other operator (+, -, ==, &&, ?., ...)
)

var tokenNames = map[TokenType]string{
	TOKEN_EOF:              "EOF",
	TOKEN_ERROR:            "ERROR",
	TOKEN_IDENTIFIER:       "IDENTIFIER",
	TOKEN_STRING_LITERAL:   "STRING",
	TOKEN_TEMPLATE_LITERAL: "TEMPLATE_LITERAL",
	TOKEN_TEMPLATE:         "TEMPLATE",
	TOKEN_NUMBER_LITERAL:   "NUMBER",
	TOKEN_IMPORT:           "import",
	TOKEN_EXPORT:           "export",
	TOKEN_DEFAULT:          "default",
	TOKEN_CONST:            "const",
	TOKEN_LET:              "let",
	TOKEN_VAR:              "var",
	TOKEN_FUNCTION:         "function",
	TOKEN_CLASS:            "class",
	TOKEN_LPAREN:           "(",
	TOKEN_RPAREN:           ")",
	TOKEN_LBRACE:           "{",
	TOKEN_RBRACE:           "}",
	TOKEN_LBRACKET:         "[",
	TOKEN_RBRACKET:         "]",
	TOKEN_COMMA:            ",",
	TOKEN_SEMICOLON:        ";",
	TOKEN_DOT:              ".",
	TOKEN_ELLIPSIS:         "...",
	TOKEN_COLON:            ":",
	TOKEN_QUESTION:         "?",
	TOKEN_BANG:             "!",
	TOKEN_EQUALS:           "=",
	TOKEN_LT:               "<",
	TOKEN_GT:               ">",
	TOKEN_ARROW:            "=>",
	TOKEN_PIPE:             "|",
	TOKEN_AMP:              "&",
	TOKEN_OPERATOR:         "OPERATOR",
}

// String returns a readable name for the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var keywords = map[string]TokenType{
	"import":   TOKEN_IMPORT,
	"export":   TOKEN_EXPORT,
	"default":  TOKEN_DEFAULT,
	"const":    TOKEN_CONST,
	"let":      TOKEN_LET,
	"var":      TOKEN_VAR,
	"function": TOKEN_FUNCTION,
	"class":    TOKEN_CLASS,
}

// Token is a single lexical unit.
// Literal holds the decoded value of string and substitution-free template
// literals; for every other token it is empty.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

// LexError represents a lexical error
type LexError struct {
	Message string
	Line    int
	Column  int
}

func (e LexError) Error() string {
	return fmt.Sprintf("Lexer error at %d:%d: %s", e.Line, e.Column, e.Message)
}
