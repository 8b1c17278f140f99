package parser

import (
	"github.com/jonkgrimes/rlox/lang/ast"
	"github.com/jonkgrimes/rlox/lang/token"
)

// declaration := varDecl | funDecl | statement
func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.VAR):
		return p.varDecl()
	case p.match(token.FUN):
		return p.funDecl()
	default:
		return p.statement()
	}
}

// varDecl := "var" IDENT ("=" expression)? ";"
func (p *Parser) varDecl() ast.Stmt {
	varPos := p.prev.Pos
	namePos := p.cur.Pos
	_ = namePos
	if !p.check(token.IDENT) {
		p.errorAtCurrent("Expect variable name.")
	}
	name := p.cur.Lexeme
	p.advance()

	var init ast.Expr
	if p.match(token.EQ) {
		init = p.expression()
	}
	semi := p.consume(token.SEMI, "Expect ';' after variable declaration.")
	return &ast.VarStmt{Var: varPos, Name: name, Init: init, Semi: semi}
}

// funDecl := "fun" function, function := IDENT "(" params? ")" block
func (p *Parser) funDecl() ast.Stmt {
	funPos := p.prev.Pos
	if !p.check(token.IDENT) {
		p.errorAtCurrent("Expect function name.")
	}
	name := p.cur.Lexeme
	p.advance()

	p.consume(token.LPAREN, "Expect '(' after function name.")
	var params []string
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= 255 {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			if !p.check(token.IDENT) {
				p.errorAtCurrent("Expect parameter name.")
				break
			}
			params = append(params, p.cur.Lexeme)
			p.advance()
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after parameters.")
	p.consume(token.LBRACE, "Expect '{' before function body.")
	body := p.block()
	return &ast.FunStmt{Fun: funPos, Name: name, Params: params, Body: body, End: p.prev.Pos}
}

// statement := exprStmt | printStmt | ifStmt | whileStmt | forStmt |
//              returnStmt | block
func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.RETURN):
		return p.returnStmt()
	case p.match(token.LBRACE):
		return &ast.BlockStmt{Block: p.block()}
	default:
		return p.exprStmt()
	}
}

func (p *Parser) block() *ast.Block {
	start := p.prev.Pos
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.check(token.EOF) && !p.hadError {
		stmts = append(stmts, p.declaration())
	}
	end := p.consume(token.RBRACE, "Expect '}' after block.")
	return &ast.Block{Start: start, End: end, Stmts: stmts}
}

func (p *Parser) printStmt() ast.Stmt {
	printPos := p.prev.Pos
	expr := p.expression()
	semi := p.consume(token.SEMI, "Expect ';' after value.")
	return &ast.PrintStmt{Print: printPos, Expr: expr, Semi: semi}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	semi := p.consume(token.SEMI, "Expect ';' after expression.")
	return &ast.ExprStmt{Expr: expr, Semi: semi}
}

func (p *Parser) ifStmt() ast.Stmt {
	ifPos := p.prev.Pos
	p.consume(token.LPAREN, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(token.RPAREN, "Expect ')' after if condition.")
	then := p.statement()
	var els ast.Stmt
	if p.match(token.ELSE) {
		els = p.statement()
	}
	return &ast.IfStmt{If: ifPos, Cond: cond, Then: then, Else: els}
}

func (p *Parser) whileStmt() ast.Stmt {
	whilePos := p.prev.Pos
	p.consume(token.LPAREN, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(token.RPAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.WhileStmt{While: whilePos, Cond: cond, Body: body}
}

// forStmt parses the classic three-clause for loop and returns it as a
// *ast.ForStmt; the compiler is responsible for desugaring it into the
// three-jump layout described in spec.md §4.4.
func (p *Parser) forStmt() ast.Stmt {
	forPos := p.prev.Pos
	p.consume(token.LPAREN, "Expect '(' after 'for'.")

	var init ast.Stmt
	switch {
	case p.match(token.SEMI):
		init = nil
	case p.match(token.VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.SEMI) {
		cond = p.expression()
	}
	p.consume(token.SEMI, "Expect ';' after loop condition.")

	var post ast.Expr
	if !p.check(token.RPAREN) {
		post = p.expression()
	}
	p.consume(token.RPAREN, "Expect ')' after for clauses.")

	body := p.statement()
	return &ast.ForStmt{For: forPos, Init: init, Cond: cond, Post: post, Body: body}
}

func (p *Parser) returnStmt() ast.Stmt {
	retPos := p.prev.Pos
	var value ast.Expr
	if !p.check(token.SEMI) {
		value = p.expression()
	}
	semi := p.consume(token.SEMI, "Expect ';' after return value.")
	return &ast.ReturnStmt{Return: retPos, Value: value, Semi: semi}
}
