package syntax

import "encoding/json"

type nodePosition struct {
	Line   int `json:"line"`
	Column int `json:"col"`
}

func jsonPos(p Position) nodePosition {
	return nodePosition{Line: p.Line, Column: p.Column}
}

func (p *Program) MarshalJSON() ([]byte, error) {
	stmts := p.Statements
	if stmts == nil {
		stmts = []Statement{}
	}
	return json.Marshal(struct {
		Kind       string      `json:"kind"`
		Statements []Statement `json:"statements"`
	}{"Program", stmts})
}

func (s *VarDeclaration) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string     `json:"kind"`
		VarType string     `json:"var_type"`
		Name    string     `json:"name"`
		Value   Expression `json:"value,omitempty"`
		nodePosition
	}{"VarDeclaration", s.VarType, s.Name, s.Value, jsonPos(s.position)})
}

func (s *Assignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string     `json:"kind"`
		Name  string     `json:"name"`
		Value Expression `json:"value"`
		nodePosition
	}{"Assignment", s.Name, s.Value, jsonPos(s.position)})
}

func (s *ExprStmt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string     `json:"kind"`
		Expr Expression `json:"expr"`
		nodePosition
	}{"ExprStmt", s.Expr, jsonPos(s.position)})
}

func (e *Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
		nodePosition
	}{"Number", e.Value, jsonPos(e.position)})
}

func (e *Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
		nodePosition
	}{"Identifier", e.Name, jsonPos(e.position)})
}

func (e *BinaryOp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     string     `json:"kind"`
		Operator string     `json:"operator"`
		Left     Expression `json:"left"`
		Right    Expression `json:"right"`
		nodePosition
	}{"BinaryOp", e.Operator, e.Left, e.Right, jsonPos(e.position)})
}
