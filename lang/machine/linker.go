package machine

import (
	"fmt"

	"github.com/jonkgrimes/rlox/lang/compiler"
)

// Link converts a compiled Program's constant pools from the compiler's
// import-agnostic raw form (numbers, strings and nested *compiler.Funcode
// values) into linked runtime Values, producing the top-level *Function
// the VM runs. This indirection — Program.Constants as []any rather than
// []Value — is what lets lang/compiler avoid importing lang/machine (which
// must import lang/compiler for the Program it executes).
func Link(prog *compiler.Program, interner *Interner) *Function {
	cache := make(map[*compiler.Funcode]*Function)
	return linkFuncode(prog.Toplevel, interner, cache)
}

func linkFuncode(fc *compiler.Funcode, interner *Interner, cache map[*compiler.Funcode]*Function) *Function {
	if fn, ok := cache[fc]; ok {
		return fn
	}
	fn := &Function{
		Name:        fc.Name,
		Arity:       fc.NumParams,
		NumUpvalues: fc.NumUpvalues,
		Chunk:       fc,
	}
	cache[fc] = fn

	consts := make([]Value, len(fc.Constants))
	for i, c := range fc.Constants {
		switch c := c.(type) {
		case float64:
			consts[i] = Number(c)
		case string:
			consts[i] = interner.Intern(c)
		case *compiler.Funcode:
			consts[i] = linkFuncode(c, interner, cache)
		default:
			panic(fmt.Sprintf("machine: unexpected constant type %T", c))
		}
	}
	fn.Constants = consts
	return fn
}
