package compiler

import "fmt"

// Opcode is a single bytecode instruction. The set is closed: every
// operation the virtual machine can perform has exactly one opcode
// (spec.md §6).
type Opcode uint8

const ( //nolint:revive
	OpReturn Opcode = iota
	OpNegate
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNil
	OpTrue
	OpFalse
	OpEqual
	OpGreater
	OpLess
	OpPrint
	OpPop

	// --- opcodes with an operand go below this line (except OpCloseUpvalue) ---

	OpConstant     // Constant<idx>        push Constants[idx]
	OpDefineGlobal // DefineGlobal<idx>     define Constants[idx] (name) = pop()
	OpGetGlobal    // GetGlobal<idx>        push globals[Constants[idx]]
	OpSetGlobal    // SetGlobal<idx>        globals[Constants[idx]] = peek(0)
	OpGetLocal     // GetLocal<slot>        push frame.slots[slot]
	OpSetLocal     // SetLocal<slot>        frame.slots[slot] = peek(0)
	OpGetUpvalue   // GetUpvalue<idx>       push *closure.Upvalues[idx]
	OpSetUpvalue   // SetUpvalue<idx>       *closure.Upvalues[idx] = peek(0)
	OpJumpIfFalse  // JumpIfFalse<off>      if falsey(peek(0)) ip += off
	OpJump         // Jump<off>             ip += off
	OpLoop         // Loop<off>             ip -= off
	OpCall         // Call<argc>            call peek(argc) with argc args
	OpClosure      // Closure<idx>          push closure over Constants[idx], then
	// read NumUpvalues (isLocal, index) descriptor pairs, each encoded as a
	// LocalValue or Upvalue opcode — read directly by the OpClosure handler,
	// never dispatched through the main loop.
	OpLocalValue   // LocalValue<slot>      descriptor: capture enclosing local
	OpUpvalue      // Upvalue<idx>          descriptor: capture enclosing upvalue
	OpCloseUpvalue // CloseUpvalue          close the upvalue for the top of stack, then pop it

	opcodeArgMin = OpConstant
	opcodeMax    = OpCloseUpvalue
)

var opcodeNames = [...]string{
	OpReturn:       "OP_RETURN",
	OpNegate:       "OP_NEGATE",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpPrint:        "OP_PRINT",
	OpPop:          "OP_POP",
	OpConstant:     "OP_CONSTANT",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetUpvalue:   "OP_GET_UPVALUE",
	OpSetUpvalue:   "OP_SET_UPVALUE",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpJump:         "OP_JUMP",
	OpLoop:         "OP_LOOP",
	OpCall:         "OP_CALL",
	OpClosure:      "OP_CLOSURE",
	OpLocalValue:   "OP_LOCAL_VALUE",
	OpUpvalue:      "OP_UPVALUE",
	OpCloseUpvalue: "OP_CLOSE_UPVALUE",
}

func (op Opcode) String() string {
	if op <= opcodeMax {
		if s := opcodeNames[op]; s != "" {
			return s
		}
	}
	return fmt.Sprintf("illegal opcode (%d)", op)
}

// HasOperand reports whether op is followed by an operand in the
// instruction stream: one byte for an index, slot or argument count, or
// jumpOperandWidth bytes for a jump offset.
func (op Opcode) HasOperand() bool { return op >= opcodeArgMin && op != OpCloseUpvalue }

// jumpOperandWidth is the number of bytes used to encode a jump offset,
// wide enough for chunks well beyond anything a single source file produces.
const jumpOperandWidth = 2
