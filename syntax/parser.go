package syntax

import (
	"fmt"
	"log/slog"
)

// Options configures a Parser. The zero value is ready to use.
type Options struct {
	Logger *slog.Logger
}

// Parser is a recursive-descent parser over a pre-tokenized stream. A Parser
// owns its symbol table and diagnostics and serves exactly one Parse call.
type Parser struct {
	tokens []Token
	pos    int
	cur    *Token // nil once the cursor runs past the last token
	prev   *Token

	symbols *SymbolTable
	errors  []error
	logger  *slog.Logger
}

func NewParser(tokens []Token, opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Parser{
		tokens:  tokens,
		pos:     -1,
		symbols: NewSymbolTable(),
		logger:  logger.With("component", "syntax-parser"),
	}
	p.advance()
	return p
}

// Parse runs the grammar over the whole stream. The returned program is nil
// only when parsing hit an internal fault; callers must inspect the returned
// diagnostics to tell a clean parse from a recovered one.
func (p *Parser) Parse() (program *Program, errs []error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("parser fault", "panic", fmt.Sprint(r), "position", p.pos)
			p.addDiagnostic(Fatal, fmt.Sprintf("fatal parsing error: %v", r))
			program, errs = nil, p.errors
		}
	}()
	return p.parseProgram(), p.errors
}

// Diagnostics returns the recorded diagnostics in report order.
func (p *Parser) Diagnostics() []string {
	out := make([]string, len(p.errors))
	for i, err := range p.errors {
		out[i] = err.Error()
	}
	return out
}

func (p *Parser) Symbols() *SymbolTable {
	return p.symbols
}

func (p *Parser) parseProgram() *Program {
	p.logger.Debug("parse started", "tokens", len(p.tokens))
	program := &Program{}

	for !p.atEnd() {
		before := len(p.errors)
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		if len(p.errors) > before && !p.afterTerminator() {
			p.synchronize()
		}
	}

	p.logger.Debug("parse finished",
		"statements", len(program.Statements),
		"diagnostics", len(p.errors),
		"symbols", p.symbols.Len(),
	)
	return program
}

// synchronize discards tokens until a probable statement boundary: just past
// a semicolon, or at EOF or a statement-starting keyword.
func (p *Parser) synchronize() {
	start := p.pos
	defer func() {
		p.logger.Debug("synchronized", "from", start, "skipped", p.pos-start)
	}()

	for p.cur != nil {
		switch {
		case p.cur.Type == TokenSemicolon:
			p.advance()
			return
		case p.cur.Type == TokenEOF, isSyncKeyword(*p.cur):
			return
		}
		p.advance()
	}
}

func (p *Parser) advance() {
	if p.cur != nil {
		p.prev = p.cur
	}
	if p.pos < len(p.tokens) {
		p.pos++
	}
	if p.pos < len(p.tokens) {
		p.cur = &p.tokens[p.pos]
	} else {
		p.cur = nil
	}
}

func (p *Parser) peek(offset int) *Token {
	i := p.pos + offset
	if i < 0 || i >= len(p.tokens) {
		return nil
	}
	return &p.tokens[i]
}

// check reports whether the current token has type tt and, unless lexeme is
// empty, exactly that text.
func (p *Parser) check(tt TokenType, lexeme string) bool {
	if p.cur == nil || p.cur.Type != tt {
		return false
	}
	return lexeme == "" || p.cur.Lexeme == lexeme
}

func (p *Parser) match(tt TokenType, lexeme string) (Token, bool) {
	if !p.check(tt, lexeme) {
		return Token{}, false
	}
	tok := *p.cur
	p.advance()
	return tok, true
}

// expect is match that records an expected-token diagnostic on failure.
func (p *Parser) expect(tt TokenType, lexeme string) (Token, bool) {
	tok, ok := p.match(tt, lexeme)
	if !ok {
		p.errorExpected(describeExpected(tt, lexeme))
	}
	return tok, ok
}

func (p *Parser) atEnd() bool {
	return p.cur == nil || p.cur.Type == TokenEOF
}

// afterTerminator reports whether the last consumed token closed a statement.
func (p *Parser) afterTerminator() bool {
	return p.prev != nil && p.prev.Type == TokenSemicolon
}
