package machine

import (
	"fmt"
	"io"
	"os"

	"github.com/dolthub/swiss"

	"github.com/jonkgrimes/rlox/lang/compiler"
)

const maxFrames = 64

// VM is a single, synchronous instance of the bytecode interpreter: its
// own operand stack, frame stack, globals table, string interner and
// open-upvalue list (spec.md §5 "Single-threaded, fully synchronous").
// Multiple VMs may run concurrently provided none share references into
// each other's heaps.
type VM struct {
	// Stdout is where Print statements go; if nil, os.Stdout is used.
	// Stderr is kept for the caller's diagnostics: the VM itself writes
	// nothing to it and returns runtime errors from Interpret.
	Stdout io.Writer
	Stderr io.Writer

	stack    []Value
	frames   []callFrame
	globals  *swiss.Map[string, Value]
	interner *Interner
	openUps  openUpvalues
}

// New returns a ready-to-use VM with its globals primed with the
// standard native bindings.
func New() *VM {
	vm := &VM{
		// The operand stack is allocated once with room for maxFrames*256
		// slots, so the stack slice held by an open Upvalue keeps aliasing
		// the live slots as the stack grows.
		stack:    make([]Value, 0, maxFrames*256),
		globals:  swiss.NewMap[string, Value](64),
		interner: NewInterner(),
	}
	vm.defineNatives()
	return vm
}

func (vm *VM) stdout() io.Writer {
	if vm.Stdout != nil {
		return vm.Stdout
	}
	return os.Stdout
}

// Interner exposes the VM's string interner so a REPL driver can link
// successive compiled chunks against the same VM.
func (vm *VM) Interner() *Interner { return vm.interner }

// Interpret links and runs a freshly compiled Program. Successive calls
// on the same VM share globals, the interner and natives, which is what
// lets a REPL build up state across lines.
func (vm *VM) Interpret(prog *compiler.Program) error {
	fn := Link(prog, vm.interner)
	closure := &Closure{Function: fn}
	vm.push(closure)
	vm.frames = append(vm.frames, callFrame{closure: closure, slotBase: 0})
	defer func() {
		vm.frames = vm.frames[:0]
		vm.stack = vm.stack[:0]
		vm.openUps = openUpvalues{}
	}()
	return vm.run()
}

func (vm *VM) push(v Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek(distance int) Value { return vm.stack[len(vm.stack)-1-distance] }

func (vm *VM) runtimeError(format string, args ...any) error {
	trace := make([]TraceFrame, 0, len(vm.frames))
	for i := len(vm.frames) - 1; i >= 0; i-- {
		fr := &vm.frames[i]
		trace = append(trace, TraceFrame{Name: fr.closure.Function.Name, Line: fr.line()})
	}
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Trace: trace}
}

// run is the fetch-decode-execute loop of spec.md §4.5: each iteration
// reads the top frame's next opcode, dispatches on it, and advances ip by
// one unless the opcode itself altered control flow.
func (vm *VM) run() error {
	for {
		frame := &vm.frames[len(vm.frames)-1]
		chunk := frame.closure.Function.Chunk
		op := compiler.Opcode(chunk.Code[frame.ip])
		frame.ip++

		switch op {
		case compiler.OpReturn:
			result := vm.pop()
			closedAbove := frame.slotBase
			vm.openUps.closeFrom(closedAbove)
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return nil
			}
			vm.stack = vm.stack[:frame.slotBase]
			vm.push(result)

		case compiler.OpConstant:
			idx := vm.readByte(frame)
			vm.push(frame.closure.Function.Constants[idx])

		case compiler.OpNil:
			vm.push(Nil)
		case compiler.OpTrue:
			vm.push(Bool(true))
		case compiler.OpFalse:
			vm.push(Bool(false))
		case compiler.OpPop:
			vm.pop()

		case compiler.OpNegate:
			n, ok := vm.peek(0).(Number)
			if !ok {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.pop()
			vm.push(-n)

		case compiler.OpNot:
			vm.push(Bool(IsFalsey(vm.pop())))

		case compiler.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case compiler.OpSubtract:
			if err := vm.numericBinary(func(a, b Number) Value { return a - b }); err != nil {
				return err
			}
		case compiler.OpMultiply:
			if err := vm.numericBinary(func(a, b Number) Value { return a * b }); err != nil {
				return err
			}
		case compiler.OpDivide:
			if err := vm.numericBinary(func(a, b Number) Value { return a / b }); err != nil {
				return err
			}
		case compiler.OpGreater:
			if err := vm.numericBinary(func(a, b Number) Value { return Bool(a > b) }); err != nil {
				return err
			}
		case compiler.OpLess:
			if err := vm.numericBinary(func(a, b Number) Value { return Bool(a < b) }); err != nil {
				return err
			}
		case compiler.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(Bool(Equal(a, b)))

		case compiler.OpPrint:
			fmt.Fprintln(vm.stdout(), vm.pop().String())

		case compiler.OpDefineGlobal:
			idx := vm.readByte(frame)
			name := frame.closure.Function.Constants[idx].(*ObjString)
			vm.globals.Put(name.s, vm.pop())

		case compiler.OpGetGlobal:
			idx := vm.readByte(frame)
			name := frame.closure.Function.Constants[idx].(*ObjString)
			v, ok := vm.globals.Get(name.s)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.s)
			}
			vm.push(v)

		case compiler.OpSetGlobal:
			idx := vm.readByte(frame)
			name := frame.closure.Function.Constants[idx].(*ObjString)
			if _, ok := vm.globals.Get(name.s); !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.s)
			}
			vm.globals.Put(name.s, vm.peek(0))

		case compiler.OpGetLocal:
			slot := vm.readByte(frame)
			vm.push(vm.stack[frame.slotBase+int(slot)])

		case compiler.OpSetLocal:
			slot := vm.readByte(frame)
			vm.stack[frame.slotBase+int(slot)] = vm.peek(0)

		case compiler.OpGetUpvalue:
			idx := vm.readByte(frame)
			vm.push(frame.closure.Upvalues[idx].get())

		case compiler.OpSetUpvalue:
			idx := vm.readByte(frame)
			frame.closure.Upvalues[idx].set(vm.peek(0))

		case compiler.OpJumpIfFalse:
			offset := vm.readShort(frame)
			if IsFalsey(vm.peek(0)) {
				frame.ip += offset
			}
		case compiler.OpJump:
			offset := vm.readShort(frame)
			frame.ip += offset
		case compiler.OpLoop:
			offset := vm.readShort(frame)
			frame.ip -= offset

		case compiler.OpCall:
			argc := int(vm.readByte(frame))
			if err := vm.callValue(vm.peek(argc), argc); err != nil {
				return err
			}

		case compiler.OpClosure:
			idx := vm.readByte(frame)
			fn := frame.closure.Function.Constants[idx].(*Function)
			cl := &Closure{Function: fn, Upvalues: make([]*Upvalue, fn.NumUpvalues)}
			for i := 0; i < fn.NumUpvalues; i++ {
				descOp := compiler.Opcode(vm.readByte(frame))
				descIdx := vm.readByte(frame)
				if descOp == compiler.OpLocalValue {
					cl.Upvalues[i] = vm.openUps.capture(vm.stack, frame.slotBase+int(descIdx))
				} else {
					cl.Upvalues[i] = frame.closure.Upvalues[descIdx]
				}
			}
			vm.push(cl)

		case compiler.OpCloseUpvalue:
			vm.openUps.closeFrom(len(vm.stack) - 1)
			vm.pop()

		default:
			return vm.runtimeError("illegal opcode %s", op)
		}
	}
}

func (vm *VM) readByte(frame *callFrame) byte {
	b := frame.closure.Function.Chunk.Code[frame.ip]
	frame.ip++
	return b
}

func (vm *VM) readShort(frame *callFrame) int {
	hi := vm.readByte(frame)
	lo := vm.readByte(frame)
	return int(hi)<<8 | int(lo)
}

func (vm *VM) add() error {
	b := vm.peek(0)
	a := vm.peek(1)
	switch a := a.(type) {
	case Number:
		b, ok := b.(Number)
		if !ok {
			return vm.runtimeError("Operands must be two numbers or two strings.")
		}
		vm.pop()
		vm.pop()
		vm.push(a + b)
		return nil
	case *ObjString:
		b, ok := b.(*ObjString)
		if !ok {
			return vm.runtimeError("Operands must be two numbers or two strings.")
		}
		vm.pop()
		vm.pop()
		vm.push(vm.interner.Concat(a, b))
		return nil
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
}

func (vm *VM) numericBinary(f func(a, b Number) Value) error {
	b, ok := vm.peek(0).(Number)
	if !ok {
		return vm.runtimeError("Operand must be a number.")
	}
	a, ok := vm.peek(1).(Number)
	if !ok {
		return vm.runtimeError("Operand must be a number.")
	}
	vm.pop()
	vm.pop()
	vm.push(f(a, b))
	return nil
}

func (vm *VM) callValue(callee Value, argc int) error {
	switch c := callee.(type) {
	case *Closure:
		return vm.call(c, argc)
	case *NativeFunction:
		args := append([]Value(nil), vm.stack[len(vm.stack)-argc:]...)
		result, err := c.Fn(args)
		if err != nil {
			return vm.runtimeError("%s", err.Error())
		}
		vm.stack = vm.stack[:len(vm.stack)-argc-1]
		vm.push(result)
		return nil
	default:
		return vm.runtimeError("Can only call functions.")
	}
}

func (vm *VM) call(c *Closure, argc int) error {
	if argc != c.Function.Arity {
		return vm.runtimeError("Expected %d arguments but received %d.", c.Function.Arity, argc)
	}
	// The top-level script occupies one frame without counting against the
	// call-depth budget, so a 64-deep recursion is accepted and the 65th
	// call overflows (spec.md §8).
	if len(vm.frames) > maxFrames {
		return vm.runtimeError("Stack overflow.")
	}
	vm.frames = append(vm.frames, callFrame{closure: c, slotBase: len(vm.stack) - argc - 1})
	return nil
}
