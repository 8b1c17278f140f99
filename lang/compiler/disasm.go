package compiler

import (
	"fmt"
	"strings"
)

// Disassemble renders prog in a human-readable textual form, in the
// teacher's "name <stack picture>  # index" style, for debugging the
// compiler and VM without a higher-level tool.
func Disassemble(prog *Program) string {
	var b strings.Builder
	disassembleFunction(&b, prog.Toplevel, "<script>")
	return b.String()
}

func disassembleFunction(b *strings.Builder, fn *Funcode, name string) {
	fmt.Fprintf(b, "== %s ==\n", name)
	for offset := 0; offset < len(fn.Code); {
		offset = disassembleInstruction(b, fn, offset)
	}
	for _, c := range fn.Constants {
		if nested, ok := c.(*Funcode); ok {
			b.WriteString("\n")
			disassembleFunction(b, nested, "fn "+nested.Name)
		}
	}
}

func disassembleInstruction(b *strings.Builder, fn *Funcode, offset int) int {
	fmt.Fprintf(b, "%04d ", offset)
	if offset > 0 && fn.Lines[offset] == fn.Lines[offset-1] {
		b.WriteString("   | ")
	} else {
		fmt.Fprintf(b, "%4d ", fn.Lines[offset])
	}

	op := Opcode(fn.Code[offset])
	switch op {
	case OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue, OpCall, OpLocalValue, OpUpvalue:
		return byteInstruction(b, op, fn, offset)
	case OpConstant, OpDefineGlobal, OpGetGlobal, OpSetGlobal, OpClosure:
		return constantInstruction(b, op, fn, offset)
	case OpJump, OpJumpIfFalse:
		return jumpInstruction(b, op, fn, offset, 1)
	case OpLoop:
		return jumpInstruction(b, op, fn, offset, -1)
	default:
		fmt.Fprintf(b, "%s\n", op)
		return offset + 1
	}
}

func byteInstruction(b *strings.Builder, op Opcode, fn *Funcode, offset int) int {
	slot := fn.Code[offset+1]
	fmt.Fprintf(b, "%-16s %4d\n", op, slot)
	return offset + 2
}

func constantInstruction(b *strings.Builder, op Opcode, fn *Funcode, offset int) int {
	idx := fn.Code[offset+1]
	var v any
	if int(idx) < len(fn.Constants) {
		v = fn.Constants[idx]
	}
	fmt.Fprintf(b, "%-16s %4d '%v'\n", op, idx, v)
	return offset + 2
}

func jumpInstruction(b *strings.Builder, op Opcode, fn *Funcode, offset, sign int) int {
	jump := int(fn.Code[offset+1])<<8 | int(fn.Code[offset+2])
	target := offset + 1 + jumpOperandWidth + sign*jump
	fmt.Fprintf(b, "%-16s %4d -> %d\n", op, offset, target)
	return offset + 1 + jumpOperandWidth
}
