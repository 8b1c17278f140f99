package ast

import "github.com/jonkgrimes/rlox/lang/token"

type (
	// ExprStmt is an expression evaluated for its side effect, with the
	// result discarded.
	ExprStmt struct {
		Expr Expr
		Semi token.Pos
	}

	// PrintStmt is `print expression ;`.
	PrintStmt struct {
		Print token.Pos
		Expr  Expr
		Semi  token.Pos
	}

	// VarStmt is `var name (= initializer)? ;`.
	VarStmt struct {
		Var    token.Pos
		Name   string
		Init   Expr // nil if no initializer
		Semi   token.Pos
	}

	// BlockStmt is `{ declaration* }`.
	BlockStmt struct {
		Block *Block
	}

	// IfStmt is `if (cond) Then (else Else)?`.
	IfStmt struct {
		If   token.Pos
		Cond Expr
		Then Stmt
		Else Stmt // nil if no else branch
	}

	// WhileStmt is `while (cond) Body`.
	WhileStmt struct {
		While token.Pos
		Cond  Expr
		Body  Stmt
	}

	// ForStmt is the three-clause for loop: `for (Init; Cond; Post) Body`,
	// kept as its own node; the compiler lays out its jumps. Init may be a *VarStmt or *ExprStmt or nil; Cond may be nil
	// (meaning "true"); Post may be nil.
	ForStmt struct {
		For  token.Pos
		Init Stmt
		Cond Expr
		Post Expr
		Body Stmt
	}

	// FunStmt is `fun name (params) { body }`.
	FunStmt struct {
		Fun    token.Pos
		Name   string
		Params []string
		Body   *Block
		End    token.Pos
	}

	// ReturnStmt is `return expression? ;`.
	ReturnStmt struct {
		Return token.Pos
		Value  Expr // nil if bare `return;`
		Semi   token.Pos
	}
)

func (s *ExprStmt) Span() (token.Pos, token.Pos) {
	start, _ := s.Expr.Span()
	return start, s.Semi
}
func (s *PrintStmt) Span() (token.Pos, token.Pos) { return s.Print, s.Semi }
func (s *VarStmt) Span() (token.Pos, token.Pos)   { return s.Var, s.Semi }
func (s *BlockStmt) Span() (token.Pos, token.Pos) { return s.Block.Span() }
func (s *IfStmt) Span() (token.Pos, token.Pos) {
	if s.Else != nil {
		_, end := s.Else.Span()
		return s.If, end
	}
	_, end := s.Then.Span()
	return s.If, end
}
func (s *WhileStmt) Span() (token.Pos, token.Pos) {
	_, end := s.Body.Span()
	return s.While, end
}
func (s *ForStmt) Span() (token.Pos, token.Pos) {
	_, end := s.Body.Span()
	return s.For, end
}
func (s *FunStmt) Span() (token.Pos, token.Pos) { return s.Fun, s.End }
func (s *ReturnStmt) Span() (token.Pos, token.Pos) { return s.Return, s.Semi }

func (*ExprStmt) stmtNode()   {}
func (*PrintStmt) stmtNode()  {}
func (*VarStmt) stmtNode()   {}
func (*BlockStmt) stmtNode()  {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*ForStmt) stmtNode()    {}
func (*FunStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode() {}
