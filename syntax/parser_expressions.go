package syntax

import "fmt"

// parseExpression parses the additive level: term (('+' | '-') term)*.
func (p *Parser) parseExpression() Expression {
	left := p.parseTerm()
	for p.check(TokenOperator, "+") || p.check(TokenOperator, "-") {
		op := *p.cur
		p.advance()
		left = newBinaryOp(op, left, p.parseTerm())
	}
	return left
}

// parseTerm parses the multiplicative level: factor (('*' | '/' | '%') factor)*.
func (p *Parser) parseTerm() Expression {
	left := p.parseFactor()
	for p.check(TokenOperator, "*") || p.check(TokenOperator, "/") || p.check(TokenOperator, "%") {
		op := *p.cur
		p.advance()
		left = newBinaryOp(op, left, p.parseFactor())
	}
	return left
}

// newBinaryOp folds left-associatively. A missing operand makes the whole
// operation absent; the loop keeps consuming so recovery starts later.
func newBinaryOp(op Token, left, right Expression) Expression {
	if left == nil || right == nil {
		return nil
	}
	return &BinaryOp{Operator: op.Lexeme, Left: left, Right: right, position: op.Pos}
}

func (p *Parser) parseFactor() Expression {
	if p.cur == nil {
		p.addDiagnostic(UnexpectedToken, "unexpected end of input")
		return nil
	}

	tok := *p.cur
	switch tok.Type {
	case TokenNumber:
		p.advance()
		return &Number{Value: tok.Lexeme, position: tok.Pos}
	case TokenIdentifier:
		if !p.symbols.Exists(tok.Lexeme) {
			p.addDiagnosticAt(UndefinedVariable, tok.Pos, fmt.Sprintf("undefined variable '%s'", tok.Lexeme))
		}
		p.advance()
		return &Identifier{Name: tok.Lexeme, position: tok.Pos}
	case TokenLParen:
		p.advance()
		expr := p.parseExpression()
		if _, ok := p.expect(TokenRParen, ")"); !ok {
			return nil
		}
		return expr
	case TokenEOF:
		p.addDiagnosticAt(UnexpectedToken, tok.Pos, "unexpected end of input")
		p.advance()
		return nil
	default:
		p.errorUnexpected(tok)
		p.advance()
		return nil
	}
}
