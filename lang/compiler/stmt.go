package compiler

import (
	"strconv"

	"github.com/jonkgrimes/rlox/lang/ast"
	"github.com/jonkgrimes/rlox/lang/token"
)

func (c *compiler) statement(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarStmt:
		c.varStmt(s)
	case *ast.FunStmt:
		c.funStmt(s)
	case *ast.PrintStmt:
		c.printStmt(s)
	case *ast.ExprStmt:
		c.exprStmt(s)
	case *ast.BlockStmt:
		line := lineOf(s.Block.Start)
		c.beginScope()
		for _, inner := range s.Block.Stmts {
			c.statement(inner)
		}
		c.endScope(line)
	case *ast.IfStmt:
		c.ifStmt(s)
	case *ast.WhileStmt:
		c.whileStmt(s)
	case *ast.ForStmt:
		c.forStmt(s)
	case *ast.ReturnStmt:
		c.returnStmt(s)
	default:
		panic("compiler: unhandled statement node")
	}
}

func (c *compiler) varStmt(s *ast.VarStmt) {
	line := lineOf(s.Var)
	if s.Init != nil {
		c.expression(s.Init)
	} else {
		c.emitOp(line, OpNil)
	}
	if c.cur.scopeDepth == 0 {
		idx := c.identifierConstant(s.Name)
		c.emitOpByte(line, OpDefineGlobal, idx)
		return
	}
	c.declareLocal(s.Name, s.Var)
	c.markInitialized()
}

func (c *compiler) funStmt(s *ast.FunStmt) {
	line := lineOf(s.Fun)
	isGlobal := c.cur.scopeDepth == 0
	var nameIdx byte
	if isGlobal {
		nameIdx = c.identifierConstant(s.Name)
	} else {
		c.declareLocal(s.Name, s.Fun)
		c.markInitialized()
	}

	fn := c.function(s.Name, s.Params, s.Body, funcTypeFunction, line)
	constIdx := c.addConstant(fn)
	c.emitOpByte(line, OpClosure, constIdx)
	c.emitUpvalueDescriptors(line, fn)

	if isGlobal {
		c.emitOpByte(line, OpDefineGlobal, nameIdx)
	}
}

// function compiles a function body in its own CompileState frame and
// returns the finished Funcode (spec.md §4.4 "Functions").
func (c *compiler) function(name string, params []string, body *ast.Block, ft funcType, defLine int32) *Funcode {
	c.push(ft, name)
	c.beginScope()

	for _, p := range params {
		c.cur.fn.NumParams++
		c.declareLocal(p, token.NoPos)
		c.markInitialized()
	}

	for _, stmt := range body.Stmts {
		c.statement(stmt)
	}

	endLine := lineOf(body.End)
	if endLine == 0 {
		endLine = defLine
	}
	c.emitOp(endLine, OpNil)
	c.emitOp(endLine, OpReturn)

	return c.pop()
}

func (c *compiler) emitUpvalueDescriptors(line int32, fn *Funcode) {
	for i := 0; i < fn.NumUpvalues; i++ {
		if fn.UpvalueIsLocal[i] {
			c.emitOpByte(line, OpLocalValue, fn.UpvalueIndex[i])
		} else {
			c.emitOpByte(line, OpUpvalue, fn.UpvalueIndex[i])
		}
	}
}

func (c *compiler) printStmt(s *ast.PrintStmt) {
	c.expression(s.Expr)
	c.emitOp(lineOf(s.Print), OpPrint)
}

func (c *compiler) exprStmt(s *ast.ExprStmt) {
	c.expression(s.Expr)
	start, _ := s.Expr.Span()
	c.emitOp(lineOf(start), OpPop)
}

func (c *compiler) ifStmt(s *ast.IfStmt) {
	line := lineOf(s.If)
	c.expression(s.Cond)
	thenJump := c.emitJump(line, OpJumpIfFalse)
	c.emitOp(line, OpPop)
	c.statement(s.Then)
	elseJump := c.emitJump(line, OpJump)

	c.patchJump(thenJump)
	c.emitOp(line, OpPop)
	if s.Else != nil {
		c.statement(s.Else)
	}
	c.patchJump(elseJump)
}

func (c *compiler) whileStmt(s *ast.WhileStmt) {
	line := lineOf(s.While)
	loopStart := len(c.cur.fn.Code)
	c.expression(s.Cond)
	exitJump := c.emitJump(line, OpJumpIfFalse)
	c.emitOp(line, OpPop)
	c.statement(s.Body)
	c.emitLoop(line, loopStart)

	c.patchJump(exitJump)
	c.emitOp(line, OpPop)
}

// forStmt desugars the three-clause for loop into the classic three-jump
// layout (spec.md §4.4): the increment is compiled once, after the body,
// and reached via a loop back from the body and jumped around on first
// entry.
func (c *compiler) forStmt(s *ast.ForStmt) {
	line := lineOf(s.For)
	c.beginScope()
	if s.Init != nil {
		c.statement(s.Init)
	}

	loopStart := len(c.cur.fn.Code)
	exitJump := -1
	if s.Cond != nil {
		c.expression(s.Cond)
		exitJump = c.emitJump(line, OpJumpIfFalse)
		c.emitOp(line, OpPop)
	}

	if s.Post != nil {
		bodyJump := c.emitJump(line, OpJump)
		incrementStart := len(c.cur.fn.Code)
		c.expression(s.Post)
		c.emitOp(line, OpPop)
		c.emitLoop(line, loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement(s.Body)
	c.emitLoop(line, loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(line, OpPop)
	}
	c.endScope(line)
}

func (c *compiler) returnStmt(s *ast.ReturnStmt) {
	line := lineOf(s.Return)
	if s.Value != nil {
		c.expression(s.Value)
	} else {
		c.emitOp(line, OpNil)
	}
	c.emitOp(line, OpReturn)
}

func parseNumberLiteral(lexeme string) float64 {
	f, _ := strconv.ParseFloat(lexeme, 64)
	return f
}
