// Package ast defines the node types produced by lang/parser and consumed
// by lang/compiler. Each node tracks its source span so the compiler can
// emit accurate line numbers into the bytecode's line table (spec.md §4.1).
package ast

import "github.com/jonkgrimes/rlox/lang/token"

// Node is implemented by every AST node.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Block is a brace-delimited sequence of statements, or a Chunk's top-level
// statement list.
type Block struct {
	Start, End token.Pos
	Stmts      []Stmt
}

func (b *Block) Span() (token.Pos, token.Pos) { return b.Start, b.End }

// Chunk is the root of a parsed source file or REPL line.
type Chunk struct {
	Name  string
	Block *Block
	EOF   token.Pos
}

func (c *Chunk) Span() (token.Pos, token.Pos) {
	if c.Block != nil {
		return c.Block.Span()
	}
	return c.EOF, c.EOF
}
