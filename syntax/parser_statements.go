package syntax

import "fmt"

// parseStatement dispatches on one token of lookahead, two for assignments.
func (p *Parser) parseStatement() Statement {
	switch {
	case p.cur.Type == TokenKeyword && IsTypeKeyword(p.cur.Lexeme):
		return p.parseDeclaration()
	case p.cur.Type == TokenIdentifier && isAssignOperator(p.peek(1)):
		return p.parseAssignment()
	default:
		return p.parseExpressionStatement()
	}
}

func isAssignOperator(tok *Token) bool {
	return tok != nil && tok.Type == TokenOperator && tok.Lexeme == "="
}

func (p *Parser) parseDeclaration() Statement {
	typeTok := *p.cur
	p.advance()

	nameTok, ok := p.expect(TokenIdentifier, "")
	if !ok {
		return nil
	}

	var value Expression
	_, hasInit := p.match(TokenOperator, "=")
	if hasInit {
		value = p.parseExpression()
	}

	if _, ok := p.expect(TokenSemicolon, ""); !ok {
		return nil
	}

	// The name enters scope only after its initializer, so `int x = x;`
	// reports x as undefined.
	if !p.symbols.Declare(nameTok.Lexeme, typeTok.Lexeme, value, typeTok.Pos) {
		p.addDiagnosticAt(DuplicateDeclaration, nameTok.Pos,
			fmt.Sprintf("variable '%s' already declared", nameTok.Lexeme))
	}

	if hasInit && value == nil {
		return nil
	}
	return &VarDeclaration{VarType: typeTok.Lexeme, Name: nameTok.Lexeme, Value: value, position: typeTok.Pos}
}

func (p *Parser) parseAssignment() Statement {
	nameTok := *p.cur
	p.advance()

	if !p.symbols.Exists(nameTok.Lexeme) {
		p.addDiagnosticAt(UseBeforeDeclaration, nameTok.Pos,
			fmt.Sprintf("variable '%s' used before declaration", nameTok.Lexeme))
	}

	if _, ok := p.expect(TokenOperator, "="); !ok {
		return nil
	}
	value := p.parseExpression()
	if _, ok := p.expect(TokenSemicolon, ""); !ok {
		return nil
	}
	if value == nil {
		return nil
	}
	return &Assignment{Name: nameTok.Lexeme, Value: value, position: nameTok.Pos}
}

func (p *Parser) parseExpressionStatement() Statement {
	pos := p.cur.Pos
	expr := p.parseExpression()
	if _, ok := p.expect(TokenSemicolon, ""); !ok {
		return nil
	}
	if expr == nil {
		return nil
	}
	return &ExprStmt{Expr: expr, position: pos}
}
