package syntax

import (
	"fmt"
	"strings"
)

type Node interface {
	Pos() Position
	String() string
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{}
	}
	return p.Statements[0].Pos()
}

func (p *Program) String() string {
	parts := make([]string, len(p.Statements))
	for i, stmt := range p.Statements {
		parts[i] = stmt.String()
	}
	return "Program(" + strings.Join(parts, ", ") + ")"
}

// VarDeclaration is positioned at its type keyword.
type VarDeclaration struct {
	VarType  string
	Name     string
	Value    Expression // nil when declared without an initializer
	position Position
}

func (s *VarDeclaration) stmtNode()     {}
func (s *VarDeclaration) Pos() Position { return s.position }

func (s *VarDeclaration) String() string {
	if s.Value == nil {
		return fmt.Sprintf("VarDeclaration(%s, %s)", s.VarType, s.Name)
	}
	return fmt.Sprintf("VarDeclaration(%s, %s, %s)", s.VarType, s.Name, s.Value)
}

type Assignment struct {
	Name     string
	Value    Expression
	position Position
}

func (s *Assignment) stmtNode()     {}
func (s *Assignment) Pos() Position { return s.position }

func (s *Assignment) String() string {
	return fmt.Sprintf("Assignment(%s, %s)", s.Name, s.Value)
}

type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }
func (s *ExprStmt) String() string {
	return s.Expr.String()
}

// Number keeps the literal text; numeric conversion is left to consumers.
type Number struct {
	Value    string
	position Position
}

func (e *Number) exprNode()      {}
func (e *Number) Pos() Position  { return e.position }
func (e *Number) String() string { return "Number(" + e.Value + ")" }

type Identifier struct {
	Name     string
	position Position
}

func (e *Identifier) exprNode()      {}
func (e *Identifier) Pos() Position  { return e.position }
func (e *Identifier) String() string { return "Identifier(" + e.Name + ")" }

// BinaryOp is positioned at its operator token.
type BinaryOp struct {
	Operator string
	Left     Expression
	Right    Expression
	position Position
}

func (e *BinaryOp) exprNode()     {}
func (e *BinaryOp) Pos() Position { return e.position }

func (e *BinaryOp) String() string {
	return fmt.Sprintf("BinaryOp('%s', %s, %s)", e.Operator, e.Left, e.Right)
}
