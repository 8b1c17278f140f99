package compiler

import (
	"github.com/jonkgrimes/rlox/lang/ast"
	"github.com/jonkgrimes/rlox/lang/token"
)

func (c *compiler) expression(e ast.Expr) {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		c.literalExpr(e)
	case *ast.GroupingExpr:
		c.expression(e.Expr)
	case *ast.VariableExpr:
		c.variableExpr(e)
	case *ast.AssignExpr:
		c.assignExpr(e)
	case *ast.UnaryExpr:
		c.unaryExpr(e)
	case *ast.BinaryExpr:
		c.binaryExpr(e)
	case *ast.LogicalExpr:
		c.logicalExpr(e)
	case *ast.CallExpr:
		c.callExpr(e)
	default:
		panic("compiler: unhandled expression node")
	}
}

func (c *compiler) literalExpr(e *ast.LiteralExpr) {
	line := lineOf(e.Pos)
	switch e.Kind {
	case token.NUMBER:
		idx := c.addConstant(parseNumberLiteral(e.Value))
		c.emitOpByte(line, OpConstant, idx)
	case token.STRING:
		idx := c.addConstant(e.Value)
		c.emitOpByte(line, OpConstant, idx)
	case token.TRUE:
		c.emitOp(line, OpTrue)
	case token.FALSE:
		c.emitOp(line, OpFalse)
	case token.NIL:
		c.emitOp(line, OpNil)
	default:
		panic("compiler: unhandled literal kind")
	}
}

func (c *compiler) variableExpr(e *ast.VariableExpr) {
	c.loadNamed(lineOf(e.Pos), e.Name)
}

func (c *compiler) loadNamed(line int32, name string) {
	if idx := resolveLocal(c.cur, name); idx != -1 {
		c.emitOpByte(line, OpGetLocal, uint8(idx))
		return
	}
	if idx := resolveUpvalue(c.cur, name); idx != -1 {
		c.emitOpByte(line, OpGetUpvalue, uint8(idx))
		return
	}
	idx := c.identifierConstant(name)
	c.emitOpByte(line, OpGetGlobal, idx)
}

func (c *compiler) assignExpr(e *ast.AssignExpr) {
	line := lineOf(e.NamePos)
	c.expression(e.Value)
	if idx := resolveLocal(c.cur, e.Name); idx != -1 {
		c.emitOpByte(line, OpSetLocal, uint8(idx))
		return
	}
	if idx := resolveUpvalue(c.cur, e.Name); idx != -1 {
		c.emitOpByte(line, OpSetUpvalue, uint8(idx))
		return
	}
	idx := c.identifierConstant(e.Name)
	c.emitOpByte(line, OpSetGlobal, idx)
}

func (c *compiler) unaryExpr(e *ast.UnaryExpr) {
	c.expression(e.Right)
	line := lineOf(e.OpPos)
	switch e.Op {
	case token.MINUS:
		c.emitOp(line, OpNegate)
	case token.BANG:
		c.emitOp(line, OpNot)
	default:
		panic("compiler: unhandled unary operator")
	}
}

func (c *compiler) binaryExpr(e *ast.BinaryExpr) {
	c.expression(e.Left)
	c.expression(e.Right)
	line := lineOf(e.OpPos)
	switch e.Op {
	case token.PLUS:
		c.emitOp(line, OpAdd)
	case token.MINUS:
		c.emitOp(line, OpSubtract)
	case token.STAR:
		c.emitOp(line, OpMultiply)
	case token.SLASH:
		c.emitOp(line, OpDivide)
	case token.EQ_EQ:
		c.emitOp(line, OpEqual)
	case token.BANG_EQ:
		c.emitOp(line, OpEqual)
		c.emitOp(line, OpNot)
	case token.GT:
		c.emitOp(line, OpGreater)
	case token.GT_EQ:
		c.emitOp(line, OpLess)
		c.emitOp(line, OpNot)
	case token.LT:
		c.emitOp(line, OpLess)
	case token.LT_EQ:
		c.emitOp(line, OpGreater)
		c.emitOp(line, OpNot)
	default:
		panic("compiler: unhandled binary operator")
	}
}

// logicalExpr implements the short-circuit compilation scheme of
// spec.md §4.4.
func (c *compiler) logicalExpr(e *ast.LogicalExpr) {
	line := lineOf(e.OpPos)
	c.expression(e.Left)
	switch e.Op {
	case token.AND:
		endJump := c.emitJump(line, OpJumpIfFalse)
		c.emitOp(line, OpPop)
		c.expression(e.Right)
		c.patchJump(endJump)
	case token.OR:
		elseJump := c.emitJump(line, OpJumpIfFalse)
		endJump := c.emitJump(line, OpJump)
		c.patchJump(elseJump)
		c.emitOp(line, OpPop)
		c.expression(e.Right)
		c.patchJump(endJump)
	default:
		panic("compiler: unhandled logical operator")
	}
}

func (c *compiler) callExpr(e *ast.CallExpr) {
	c.expression(e.Callee)
	if len(e.Args) > maxArgs {
		c.errorAt(e.Lparen, "", "Can't have more than 255 arguments.")
	}
	for _, arg := range e.Args {
		c.expression(arg)
	}
	c.emitOpByte(lineOf(e.Lparen), OpCall, byte(len(e.Args)))
}
