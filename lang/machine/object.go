package machine

import (
	"fmt"

	"github.com/jonkgrimes/rlox/lang/compiler"
)

// ObjString is an interned string object. Two ObjStrings with the same
// body are always the same pointer (see Interner), so string equality is
// pointer equality.
type ObjString struct {
	s string
}

func (s *ObjString) String() string { return s.s }
func (*ObjString) Type() string     { return "string" }

// Function is the immutable compiled form of a function: its name, arity
// and compiled chunk (spec.md §4.2 "Function is immutable after
// compilation finishes"). Constants mirrors Chunk.Constants but with each
// entry linked to its runtime Value (see Link in linker.go).
type Function struct {
	Name        string
	Arity       int
	NumUpvalues int
	Chunk       *compiler.Funcode
	Constants   []Value
}

func (fn *Function) String() string { return fmt.Sprintf("<fn %s>", displayName(fn.Name)) }
func (*Function) Type() string      { return "function" }

func displayName(name string) string {
	if name == "" {
		return "script"
	}
	return name
}

// Closure pairs a Function with the upvalue handles it captured at
// creation time. Two closures over the same Function have distinct
// upvalue sequences (spec.md §4.2).
type Closure struct {
	Function *Function
	Upvalues []*Upvalue
}

func (c *Closure) String() string { return c.Function.String() }
func (*Closure) Type() string     { return "closure" }

// NativeFn is the signature of a host-provided native function.
type NativeFn func(args []Value) (Value, error)

// NativeFunction wraps a host callable so it can be invoked like any other
// language-level function (spec.md §4.2).
type NativeFunction struct {
	Name string
	Fn   NativeFn
}

func (n *NativeFunction) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }
func (*NativeFunction) Type() string     { return "native function" }

// Callable is implemented by every Value that OpCall may invoke.
type Callable interface {
	Value
	Arity() int
}

func (c *Closure) Arity() int        { return c.Function.Arity }
func (n *NativeFunction) Arity() int { return -1 } // natives accept any argument count
