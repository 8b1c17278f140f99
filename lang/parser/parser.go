// Package parser implements the rlox grammar: a recursive-descent statement
// parser combined with a Pratt (precedence-climbing) expression parser, as
// specified by spec.md §4.4. It consumes the token stream produced by
// lang/scanner and produces the lang/ast node tree consumed by
// lang/compiler.
//
// Per spec.md §1 Non-goals, error recovery (panic-mode resynchronization)
// is out of scope: the parser reports the first error it encounters and
// stops trying to build a meaningful tree from that point on.
package parser

import (
	goscanner "go/scanner"
	gotoken "go/token"

	"github.com/jonkgrimes/rlox/lang/ast"
	"github.com/jonkgrimes/rlox/lang/scanner"
	"github.com/jonkgrimes/rlox/lang/token"
)

// Parser holds the state for one parse of a single chunk of source.
type Parser struct {
	file *token.File
	sc   *scanner.Scanner

	prev, cur scanner.Tok
	hadError  bool
	errs      goscanner.ErrorList
}

// Parse scans and parses src (from file, used only for diagnostics) into a
// *ast.Chunk. A non-nil error means the chunk must not be compiled or run
// (spec.md §7: "the VM must not run the chunk").
func Parse(file *token.File, src string) (*ast.Chunk, error) {
	p := &Parser{file: file, sc: scanner.New(file, src)}
	p.advance()

	var stmts []ast.Stmt
	start := p.cur.Pos
	for !p.check(token.EOF) && !p.hadError {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	end := p.cur.Pos

	// Lexical errors surface even if the parser itself didn't fail.
	for _, e := range p.sc.Errors() {
		p.errs.Add(e.Pos, e.Msg)
	}
	p.errs.Sort()
	if err := p.errs.Err(); err != nil {
		return nil, err
	}

	chunk := &ast.Chunk{
		Name:  file.Name,
		Block: &ast.Block{Start: start, End: end, Stmts: stmts},
		EOF:   p.cur.Pos,
	}
	return chunk, nil
}

func (p *Parser) advance() {
	p.prev = p.cur
	for {
		p.cur = p.sc.Scan()
		if p.cur.Kind != token.ILLEGAL {
			break
		}
		// the scanner already recorded the lexical error; keep scanning so a
		// single bad character doesn't also cascade into a parse error.
		if p.cur.Kind == token.EOF {
			break
		}
	}
}

func (p *Parser) check(k token.Token) bool { return p.cur.Kind == k }

func (p *Parser) match(k token.Token) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

// consume advances past the expected token kind, or records a compile error
// at the current token: "[line N] Error at 'lexeme': message" (spec.md §7).
func (p *Parser) consume(k token.Token, msg string) token.Pos {
	if p.check(k) {
		pos := p.cur.Pos
		p.advance()
		return pos
	}
	p.errorAtCurrent(msg)
	return p.cur.Pos
}

func (p *Parser) errorAtCurrent(msg string) { p.errorAt(p.cur, msg) }
func (p *Parser) errorAtPrev(msg string)    { p.errorAt(p.prev, msg) }

func (p *Parser) errorAt(tok scanner.Tok, msg string) {
	if p.hadError {
		// Non-goal: no panic-mode resynchronization. Report only the first
		// error and stop emitting meaningful diagnostics past it.
		return
	}
	p.hadError = true

	var where string
	if tok.Kind == token.EOF {
		where = "at end"
	} else {
		where = "at '" + tok.Lexeme + "'"
	}
	line, col := tok.Pos.LineCol()
	p.errs.Add(gotoken.Position{Filename: p.file.Name, Line: line, Column: col},
		"Error "+where+": "+msg)
}
