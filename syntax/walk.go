package syntax

// Walk visits node and its children depth-first, parents before children.
// Returning false from fn skips the children of that node.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Statements {
			Walk(stmt, fn)
		}
	case *VarDeclaration:
		Walk(n.Value, fn)
	case *Assignment:
		Walk(n.Value, fn)
	case *ExprStmt:
		Walk(n.Expr, fn)
	case *BinaryOp:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Number, *Identifier:
	}
}
