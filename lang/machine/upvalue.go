package machine

import "golang.org/x/exp/slices"

// Upvalue indirects access to a variable captured by a closure from an
// enclosing function's scope. While open, it refers to a live stack slot;
// once that slot goes out of scope it is closed, copying the slot's value
// into the Upvalue's own storage (spec.md §4.6). Multiple closures
// capturing the same local share the same *Upvalue, which is what makes
// mutation of a shared captured variable visible across them.
type Upvalue struct {
	stackIdx int // valid only while open
	closed   bool
	value    Value // the stack slot's value, mirrored here once closed
	stack    []Value
}

func (u *Upvalue) String() string { return "upvalue" }
func (*Upvalue) Type() string     { return "upvalue" }

func (u *Upvalue) get() Value {
	if u.closed {
		return u.value
	}
	return u.stack[u.stackIdx]
}

func (u *Upvalue) set(v Value) {
	if u.closed {
		u.value = v
		return
	}
	u.stack[u.stackIdx] = v
}

func (u *Upvalue) close() {
	u.value = u.stack[u.stackIdx]
	u.closed = true
	u.stack = nil
}

// openUpvalues is the VM's per-run sorted list of open upvalues, ordered
// by stack index descending, as specified by spec.md §4.6.
type openUpvalues struct {
	list []*Upvalue
}

// capture returns the open upvalue for stackIdx, creating and inserting it
// in sorted position if none exists yet, so that multiple closures
// capturing the same local share one Upvalue object.
func (o *openUpvalues) capture(stack []Value, stackIdx int) *Upvalue {
	i, found := slices.BinarySearchFunc(o.list, stackIdx, func(u *Upvalue, idx int) int {
		// descending order: earlier entries have larger stackIdx
		return idx - u.stackIdx
	})
	if found {
		return o.list[i]
	}
	uv := &Upvalue{stackIdx: stackIdx, stack: stack}
	o.list = slices.Insert(o.list, i, uv)
	return uv
}

// closeFrom closes every open upvalue with stackIdx >= above and removes
// it from the open list (spec.md §4.6).
func (o *openUpvalues) closeFrom(above int) {
	i := 0
	for i < len(o.list) && o.list[i].stackIdx >= above {
		o.list[i].close()
		i++
	}
	o.list = o.list[i:]
}
