package machine

import "github.com/dolthub/swiss"

// Interner holds the canonical *ObjString for every distinct string body
// the VM has seen, so that string equality reduces to pointer equality
// and repeated literals/concatenations don't allocate duplicate objects
// (spec.md §2 "interned strings"). It is the one part of spec.md §4.3's
// Heap that needs an actual lookup table: every other Value variant gets
// its identity and lifetime from Go's own garbage collector, the same
// choice the teacher codebase makes for its heap-allocated types.
type Interner struct {
	m *swiss.Map[string, *ObjString]
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{m: swiss.NewMap[string, *ObjString](64)}
}

// Intern returns the canonical *ObjString for s, allocating one the first
// time s is seen.
func (in *Interner) Intern(s string) *ObjString {
	if v, ok := in.m.Get(s); ok {
		return v
	}
	v := &ObjString{s: s}
	in.m.Put(s, v)
	return v
}

// Concat interns the concatenation of a and b without forcing the caller
// to build the intermediate string twice.
func (in *Interner) Concat(a, b *ObjString) *ObjString {
	return in.Intern(a.s + b.s)
}
