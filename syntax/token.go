package syntax

import "fmt"

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	TokenIllegal TokenType = "ILLEGAL"
	TokenEOF     TokenType = "EOF"

	TokenKeyword    TokenType = "KEYWORD"
	TokenIdentifier TokenType = "IDENTIFIER"
	TokenNumber     TokenType = "NUMBER"
	TokenOperator   TokenType = "OPERATOR"
	TokenSemicolon  TokenType = "SEMICOLON"
	TokenLParen     TokenType = "LPAREN"
	TokenRParen     TokenType = "RPAREN"
)

// Token captures lexical information handed to the parser by the lexer.
type Token struct {
	Type   TokenType
	Lexeme string
	Pos    Position
}

// Position identifies a 1-based line and column in the source file.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func (t Token) String() string {
	if t.Lexeme == "" {
		return string(t.Type)
	}
	return fmt.Sprintf("%s '%s'", t.Type, t.Lexeme)
}

// NewToken builds a token at the given position.
func NewToken(tt TokenType, lexeme string, line, col int) Token {
	return Token{Type: tt, Lexeme: lexeme, Pos: Position{Line: line, Column: col}}
}

var typeKeywords = map[string]struct{}{
	"int":    {},
	"float":  {},
	"double": {},
	"char":   {},
	"bool":   {},
	"string": {},
}

// Control keywords are recognized but have no grammar rules.
var controlKeywords = map[string]struct{}{
	"if":     {},
	"else":   {},
	"while":  {},
	"for":    {},
	"return": {},
}

var syncKeywords = map[string]struct{}{
	"int":    {},
	"float":  {},
	"char":   {},
	"if":     {},
	"while":  {},
	"for":    {},
	"return": {},
}

// IsTypeKeyword reports whether word names a declarable type.
func IsTypeKeyword(word string) bool {
	_, ok := typeKeywords[word]
	return ok
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	if IsTypeKeyword(word) {
		return true
	}
	_, ok := controlKeywords[word]
	return ok
}

func isSyncKeyword(tok Token) bool {
	if tok.Type != TokenKeyword {
		return false
	}
	_, ok := syncKeywords[tok.Lexeme]
	return ok
}

func isBinaryOperator(lexeme string) bool {
	switch lexeme {
	case "+", "-", "*", "/", "%":
		return true
	default:
		return false
	}
}
