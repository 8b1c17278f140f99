package parser

import (
	"github.com/jonkgrimes/rlox/lang/ast"
	"github.com/jonkgrimes/rlox/lang/token"
)

// Precedence implements the ladder from spec.md §4.4, low to high.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type (
	prefixFn func(p *Parser, canAssign bool) ast.Expr
	infixFn  func(p *Parser, left ast.Expr, canAssign bool) ast.Expr
)

type rule struct {
	prefix prefixFn
	infix  infixFn
	prec   Precedence
}

// rules is the ParseRule table of spec.md §4.4: each token kind maps to an
// optional prefix rule, an optional infix rule, and the precedence to use
// when that token appears as an infix/postfix operator.
var rules map[token.Token]rule

func init() {
	rules = map[token.Token]rule{
		token.LPAREN:  {prefix: grouping, infix: call, prec: PrecCall},
		token.MINUS:   {prefix: unary, infix: binary, prec: PrecTerm},
		token.PLUS:    {infix: binary, prec: PrecTerm},
		token.BANG:    {prefix: unary},
		token.SLASH:   {infix: binary, prec: PrecFactor},
		token.STAR:    {infix: binary, prec: PrecFactor},
		token.BANG_EQ: {infix: binary, prec: PrecEquality},
		token.EQ_EQ:   {infix: binary, prec: PrecEquality},
		token.GT:      {infix: binary, prec: PrecComparison},
		token.GT_EQ:   {infix: binary, prec: PrecComparison},
		token.LT:      {infix: binary, prec: PrecComparison},
		token.LT_EQ:   {infix: binary, prec: PrecComparison},
		token.AND:     {infix: and_, prec: PrecAnd},
		token.OR:      {infix: or_, prec: PrecOr},
		token.NUMBER:  {prefix: literal},
		token.STRING:  {prefix: literal},
		token.IDENT:   {prefix: variable},
		token.TRUE:    {prefix: literal},
		token.FALSE:   {prefix: literal},
		token.NIL:     {prefix: literal},
	}
}

func ruleFor(k token.Token) rule { return rules[k] }

// expression parses a full expression, i.e. parsePrecedence(Assignment).
func (p *Parser) expression() ast.Expr {
	return p.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the Pratt driver of spec.md §4.4: advance, call the
// current token's prefix rule (error if absent), then while the next
// token's infix precedence is >= minPrec, advance and call that infix rule.
func (p *Parser) parsePrecedence(minPrec Precedence) ast.Expr {
	startTok := p.cur
	p.advance()
	pr := ruleFor(startTok.Kind)
	if pr.prefix == nil {
		p.errorAtPrev("Expect expression.")
		return &ast.LiteralExpr{Pos: startTok.Pos, Kind: token.NIL}
	}

	canAssign := minPrec <= PrecAssignment
	left := pr.prefix(p, canAssign)

	for {
		ir := ruleFor(p.cur.Kind)
		if ir.infix == nil || ir.prec < minPrec {
			break
		}
		p.advance()
		left = ir.infix(p, left, canAssign)
	}

	if canAssign && p.check(token.EQ) {
		p.errorAtCurrent("Invalid assignment target.")
	}
	return left
}

func literal(p *Parser, _ bool) ast.Expr {
	tok := p.prev
	return &ast.LiteralExpr{Pos: tok.Pos, Kind: tok.Kind, Value: tok.Lexeme}
}

func grouping(p *Parser, _ bool) ast.Expr {
	lparen := p.prev.Pos
	expr := p.expression()
	rparen := p.consume(token.RPAREN, "Expect ')' after expression.")
	return &ast.GroupingExpr{Lparen: lparen, Rparen: rparen, Expr: expr}
}

func unary(p *Parser, _ bool) ast.Expr {
	op := p.prev
	right := p.parsePrecedence(PrecUnary)
	return &ast.UnaryExpr{OpPos: op.Pos, Op: op.Kind, Right: right}
}

func binary(p *Parser, left ast.Expr, _ bool) ast.Expr {
	op := p.prev
	pr := ruleFor(op.Kind)
	// left-associative: parse the right operand at one precedence higher.
	right := p.parsePrecedence(pr.prec + 1)
	return &ast.BinaryExpr{Left: left, OpPos: op.Pos, Op: op.Kind, Right: right}
}

func and_(p *Parser, left ast.Expr, _ bool) ast.Expr {
	op := p.prev
	right := p.parsePrecedence(PrecAnd + 1)
	return &ast.LogicalExpr{Left: left, OpPos: op.Pos, Op: op.Kind, Right: right}
}

func or_(p *Parser, left ast.Expr, _ bool) ast.Expr {
	op := p.prev
	right := p.parsePrecedence(PrecOr + 1)
	return &ast.LogicalExpr{Left: left, OpPos: op.Pos, Op: op.Kind, Right: right}
}

func variable(p *Parser, canAssign bool) ast.Expr {
	tok := p.prev
	if canAssign && p.check(token.EQ) {
		p.advance()
		eqPos := p.prev.Pos
		value := p.parsePrecedence(PrecAssignment)
		return &ast.AssignExpr{Name: tok.Lexeme, NamePos: tok.Pos, EqPos: eqPos, Value: value}
	}
	return &ast.VariableExpr{Pos: tok.Pos, Name: tok.Lexeme}
}

func call(p *Parser, callee ast.Expr, _ bool) ast.Expr {
	lparen := p.prev.Pos
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= 255 {
				p.errorAtCurrent("Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	rparen := p.consume(token.RPAREN, "Expect ')' after arguments.")
	return &ast.CallExpr{Callee: callee, Lparen: lparen, Args: args, Rparen: rparen}
}
