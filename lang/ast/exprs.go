package ast

import "github.com/jonkgrimes/rlox/lang/token"

type (
	// LiteralExpr is a number, string, true, false or nil literal.
	LiteralExpr struct {
		Pos   token.Pos
		Kind  token.Token // NUMBER, STRING, TRUE, FALSE or NIL
		Value string      // raw lexeme; the compiler parses NUMBER/STRING forms
	}

	// GroupingExpr is a parenthesized expression, e.g. (a + b).
	GroupingExpr struct {
		Lparen, Rparen token.Pos
		Expr           Expr
	}

	// VariableExpr is a bare identifier used as an expression.
	VariableExpr struct {
		Pos  token.Pos
		Name string
	}

	// AssignExpr is `name = value`.
	AssignExpr struct {
		Name    string
		NamePos token.Pos
		EqPos   token.Pos
		Value   Expr
	}

	// UnaryExpr is a prefix `-` or `!` applied to Right.
	UnaryExpr struct {
		OpPos token.Pos
		Op    token.Token
		Right Expr
	}

	// BinaryExpr is `Left Op Right` for arithmetic/comparison/equality
	// operators.
	BinaryExpr struct {
		Left  Expr
		OpPos token.Pos
		Op    token.Token
		Right Expr
	}

	// LogicalExpr is `Left (and|or) Right`, kept distinct from BinaryExpr
	// because it short-circuits (spec.md §4.4).
	LogicalExpr struct {
		Left  Expr
		OpPos token.Pos
		Op    token.Token // AND or OR
		Right Expr
	}

	// CallExpr is `Callee(Args...)`.
	CallExpr struct {
		Callee Expr
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}
)

func (e *LiteralExpr) Span() (token.Pos, token.Pos)  { return e.Pos, e.Pos }
func (e *GroupingExpr) Span() (token.Pos, token.Pos) { return e.Lparen, e.Rparen }
func (e *VariableExpr) Span() (token.Pos, token.Pos) { return e.Pos, e.Pos }
func (e *AssignExpr) Span() (token.Pos, token.Pos) {
	_, end := e.Value.Span()
	return e.NamePos, end
}
func (e *UnaryExpr) Span() (token.Pos, token.Pos) {
	_, end := e.Right.Span()
	return e.OpPos, end
}
func (e *BinaryExpr) Span() (token.Pos, token.Pos) {
	start, _ := e.Left.Span()
	_, end := e.Right.Span()
	return start, end
}
func (e *LogicalExpr) Span() (token.Pos, token.Pos) {
	start, _ := e.Left.Span()
	_, end := e.Right.Span()
	return start, end
}
func (e *CallExpr) Span() (token.Pos, token.Pos) {
	start, _ := e.Callee.Span()
	return start, e.Rparen
}

func (*LiteralExpr) exprNode()  {}
func (*GroupingExpr) exprNode() {}
func (*VariableExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*CallExpr) exprNode()     {}
