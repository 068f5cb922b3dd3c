package syntax

import "fmt"

// DiagnosticKind classifies a recorded parse diagnostic.
type DiagnosticKind int

const (
	ExpectedToken DiagnosticKind = iota
	DuplicateDeclaration
	UseBeforeDeclaration
	UndefinedVariable
	UnexpectedToken
	Fatal
)

func (k DiagnosticKind) String() string {
	switch k {
	case ExpectedToken:
		return "expected-token"
	case DuplicateDeclaration:
		return "duplicate-declaration"
	case UseBeforeDeclaration:
		return "use-before-declaration"
	case UndefinedVariable:
		return "undefined-variable"
	case UnexpectedToken:
		return "unexpected-token"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
}

// Diagnostic is a recoverable (or, for Fatal, terminal) parse problem.
// AtEOF is set when the cursor had run past the last token.
type Diagnostic struct {
	Kind    DiagnosticKind
	Pos     Position
	AtEOF   bool
	Message string
}

func (d *Diagnostic) Error() string {
	if d.AtEOF {
		return "Syntax Error at EOF - " + d.Message
	}
	return fmt.Sprintf("Syntax Error at %d:%d - %s", d.Pos.Line, d.Pos.Column, d.Message)
}

func (p *Parser) errorExpected(expected string) {
	got := "EOF"
	if p.cur != nil {
		got = p.cur.String()
	}
	p.addDiagnostic(ExpectedToken, fmt.Sprintf("expected %s, got %s", expected, got))
}

func (p *Parser) errorUnexpected(tok Token) {
	p.addDiagnosticAt(UnexpectedToken, tok.Pos, fmt.Sprintf("unexpected token %s", tok))
}

// addDiagnostic records msg at the current token, or at EOF when none.
func (p *Parser) addDiagnostic(kind DiagnosticKind, msg string) {
	if p.cur == nil {
		p.errors = append(p.errors, &Diagnostic{Kind: kind, AtEOF: true, Message: msg})
		return
	}
	p.addDiagnosticAt(kind, p.cur.Pos, msg)
}

func (p *Parser) addDiagnosticAt(kind DiagnosticKind, pos Position, msg string) {
	p.errors = append(p.errors, &Diagnostic{Kind: kind, Pos: pos, Message: msg})
}

func describeExpected(tt TokenType, lexeme string) string {
	if lexeme == "" {
		return string(tt)
	}
	return fmt.Sprintf("%s '%s'", tt, lexeme)
}
