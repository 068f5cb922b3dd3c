package syntax

import "strings"

// readNotation reads whitespace-separated token fields. A field is either
// TYPE:lexeme or a bare word classified by classifyWord; a field starting
// with '#' comments out the rest of its line. Fields are never split, so
// "x=1" is one ILLEGAL token rather than three.
func readNotation(text string) []Token {
	var tokens []Token
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		col := 0
		for col < len(line) {
			if isNotationSpace(line[col]) {
				col++
				continue
			}
			if line[col] == '#' {
				break
			}
			start := col
			for col < len(line) && !isNotationSpace(line[col]) {
				col++
			}
			tokens = append(tokens, notationToken(line[start:col], i+1, start+1))
		}
	}
	return tokens
}

func isNotationSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func notationToken(field string, line, col int) Token {
	if tt, lexeme, ok := splitExplicit(field); ok {
		return NewToken(tt, lexeme, line, col)
	}
	return NewToken(classifyWord(field), field, line, col)
}

// splitExplicit recognizes the TYPE:lexeme form for known token types.
func splitExplicit(field string) (TokenType, string, bool) {
	idx := strings.IndexByte(field, ':')
	if idx <= 0 {
		return "", "", false
	}
	switch tt := TokenType(field[:idx]); tt {
	case TokenKeyword, TokenIdentifier, TokenNumber, TokenOperator,
		TokenSemicolon, TokenLParen, TokenRParen, TokenEOF, TokenIllegal:
		return tt, field[idx+1:], true
	default:
		return "", "", false
	}
}

func classifyWord(word string) TokenType {
	switch word {
	case ";":
		return TokenSemicolon
	case "(":
		return TokenLParen
	case ")":
		return TokenRParen
	case "+", "-", "*", "/", "%", "=":
		return TokenOperator
	}
	switch {
	case IsKeyword(word):
		return TokenKeyword
	case isNumberWord(word):
		return TokenNumber
	case isIdentifierWord(word):
		return TokenIdentifier
	default:
		return TokenIllegal
	}
}

func isNumberWord(word string) bool {
	if word == "" {
		return false
	}
	dots := 0
	for i := 0; i < len(word); i++ {
		c := word[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && i > 0 && i < len(word)-1:
			dots++
		default:
			return false
		}
	}
	return dots <= 1
}

func isIdentifierWord(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		c := word[i]
		letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		digit := c >= '0' && c <= '9'
		if !letter && (i == 0 || !digit) {
			return false
		}
	}
	return true
}
