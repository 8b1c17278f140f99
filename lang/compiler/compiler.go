// Package compiler turns a parsed lang/ast tree into bytecode in a single
// walk over the tree (the Pratt/recursive-descent parsing itself lives in
// lang/parser), maintaining a stack of CompileState frames, one per
// function currently being compiled, as described by spec.md §4.4.
package compiler

import (
	goscanner "go/scanner"
	gotoken "go/token"

	"github.com/jonkgrimes/rlox/lang/ast"
	"github.com/jonkgrimes/rlox/lang/token"
)

const (
	maxLocals   = 256
	maxUpvalues = 256
	maxArgs     = 255
	maxJumpOff  = 1<<16 - 1
)

type funcType int

const (
	funcTypeScript funcType = iota
	funcTypeFunction
)

type local struct {
	name       string
	depth      int // -1: declared but not yet initialized
	isCaptured bool
}

type upvalueDesc struct {
	index   uint8
	isLocal bool
}

// compileState is one frame of the CompileState stack: the compiler's
// view of the function currently being emitted into.
type compileState struct {
	enclosing *compileState
	fn        *Funcode
	fnType    funcType

	locals     []local
	scopeDepth int
	upvalues   []upvalueDesc
}

// Compile compiles a single chunk (file or REPL entry) into a Program. A
// non-nil error means the chunk must not be run (spec.md §7).
func Compile(file *token.File, chunk *ast.Chunk) (*Program, error) {
	c := &compiler{file: file}
	prog := &Program{Name: chunk.Name}
	c.prog = prog

	c.push(funcTypeScript, "")
	for _, stmt := range chunk.Block.Stmts {
		c.statement(stmt)
	}
	top := c.pop()
	top.Code = append(top.Code, byte(OpNil))
	top.Lines = append(top.Lines, lineOf(chunk.EOF))
	top.Code = append(top.Code, byte(OpReturn))
	top.Lines = append(top.Lines, lineOf(chunk.EOF))
	prog.Toplevel = top

	c.errs.Sort()
	if err := c.errs.Err(); err != nil {
		return nil, err
	}
	return prog, nil
}

// compiler holds the state for one Compile call: the program under
// construction, the current CompileState frame, and accumulated errors.
type compiler struct {
	file *token.File
	prog *Program
	cur  *compileState

	hadError bool
	errs     goscanner.ErrorList
}

func lineOf(p token.Pos) int32 { return int32(p.Line()) }

func (c *compiler) push(ft funcType, name string) {
	fn := &Funcode{Prog: c.prog, Name: name}
	st := &compileState{enclosing: c.cur, fn: fn, fnType: ft}
	// Slot 0 of every frame holds the function/closure being called itself
	// (spec.md §3 "local N is at slot_base + N + 1"); reserve it here so
	// local indices line up with that layout.
	st.locals = append(st.locals, local{name: "", depth: 0})
	c.cur = st
}

func (c *compiler) pop() *Funcode {
	fn := c.cur.fn
	fn.NumUpvalues = len(c.cur.upvalues)
	for _, uv := range c.cur.upvalues {
		fn.UpvalueIsLocal = append(fn.UpvalueIsLocal, uv.isLocal)
		fn.UpvalueIndex = append(fn.UpvalueIndex, uv.index)
	}
	c.cur = c.cur.enclosing
	return fn
}

func (c *compiler) emit(line int32, b ...byte) {
	fn := c.cur.fn
	for _, by := range b {
		fn.Code = append(fn.Code, by)
		fn.Lines = append(fn.Lines, line)
	}
}

func (c *compiler) emitOp(line int32, op Opcode)            { c.emit(line, byte(op)) }
func (c *compiler) emitOpByte(line int32, op Opcode, b byte) { c.emit(line, byte(op), b) }

// addConstant appends v to the current function's constant pool and returns
// its index. The compiler never deduplicates; that's a possible future
// optimization, not a correctness requirement.
func (c *compiler) addConstant(v any) byte {
	fn := c.cur.fn
	if len(fn.Constants) >= 255 {
		c.errorAt(token.NoPos, "", "Too many constants in one chunk.")
		return 0
	}
	fn.Constants = append(fn.Constants, v)
	return byte(len(fn.Constants) - 1)
}

func (c *compiler) identifierConstant(name string) byte {
	return c.addConstant(name)
}

func (c *compiler) errorAt(pos token.Pos, lexeme, msg string) {
	if c.hadError {
		return
	}
	c.hadError = true
	where := "at end"
	if lexeme != "" {
		where = "at '" + lexeme + "'"
	}
	line, col := pos.LineCol()
	c.errs.Add(gotoken.Position{Filename: c.file.Name, Line: line, Column: col},
		"Error "+where+": "+msg)
}

// --- scopes ---

func (c *compiler) beginScope() { c.cur.scopeDepth++ }

// endScope emits Pop (or CloseUpvalue for captured locals) for every local
// leaving scope, in reverse declaration order, then drops them
// (spec.md §4.4).
func (c *compiler) endScope(line int32) {
	c.cur.scopeDepth--
	locs := c.cur.locals
	n := len(locs)
	for n > 0 && locs[n-1].depth > c.cur.scopeDepth {
		if locs[n-1].isCaptured {
			c.emitOp(line, OpCloseUpvalue)
		} else {
			c.emitOp(line, OpPop)
		}
		n--
	}
	c.cur.locals = locs[:n]
}

// --- locals ---

func (c *compiler) declareLocal(name string, namePos token.Pos) {
	if c.cur.scopeDepth == 0 {
		return // globals are resolved dynamically by name, not declared
	}
	for i := len(c.cur.locals) - 1; i >= 0; i-- {
		l := c.cur.locals[i]
		if l.depth != -1 && l.depth < c.cur.scopeDepth {
			break
		}
		if l.name == name {
			c.errorAt(namePos, name, "Already a variable with this name in this scope.")
			return
		}
	}
	if len(c.cur.locals) >= maxLocals {
		c.errorAt(namePos, name, "Too many local variables in function.")
		return
	}
	c.cur.locals = append(c.cur.locals, local{name: name, depth: -1})
}

func (c *compiler) markInitialized() {
	if c.cur.scopeDepth == 0 {
		return
	}
	c.cur.locals[len(c.cur.locals)-1].depth = c.cur.scopeDepth
}

func resolveLocal(st *compileState, name string) int {
	for i := len(st.locals) - 1; i >= 0; i-- {
		if st.locals[i].name == name {
			return i
		}
	}
	return -1
}

// resolveUpvalue implements the recursive upvalue-resolution algorithm of
// spec.md §4.6: ascend the CompileState stack, and on success register a
// descriptor (deduplicated) in every frame from the capture point down to
// st.
func resolveUpvalue(st *compileState, name string) int {
	if st.enclosing == nil {
		return -1
	}
	if idx := resolveLocal(st.enclosing, name); idx != -1 {
		st.enclosing.locals[idx].isCaptured = true
		return addUpvalue(st, uint8(idx), true)
	}
	if idx := resolveUpvalue(st.enclosing, name); idx != -1 {
		return addUpvalue(st, uint8(idx), false)
	}
	return -1
}

func addUpvalue(st *compileState, index uint8, isLocal bool) int {
	for i, uv := range st.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	st.upvalues = append(st.upvalues, upvalueDesc{index: index, isLocal: isLocal})
	return len(st.upvalues) - 1
}

// --- jumps ---

// emitJump emits op with a placeholder 2-byte offset and returns the
// offset (into fn.Code) of that placeholder, to be patched by patchJump.
func (c *compiler) emitJump(line int32, op Opcode) int {
	c.emit(line, byte(op), 0, 0)
	return len(c.cur.fn.Code) - jumpOperandWidth
}

func (c *compiler) patchJump(at int) {
	fn := c.cur.fn
	offset := len(fn.Code) - at - jumpOperandWidth
	if offset > maxJumpOff {
		c.errorAt(token.NoPos, "", "Too much code to jump over.")
		return
	}
	fn.Code[at] = byte(offset >> 8)
	fn.Code[at+1] = byte(offset)
}

func (c *compiler) emitLoop(line int32, loopStart int) {
	fn := c.cur.fn
	c.emitOp(line, OpLoop)
	offset := len(fn.Code) - loopStart + jumpOperandWidth
	if offset > maxJumpOff {
		c.errorAt(token.NoPos, "", "Loop body too large.")
	}
	c.emit(line, byte(offset>>8), byte(offset))
}
