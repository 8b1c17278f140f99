package machine

// callFrame records one active call: the closure being executed, the
// instruction pointer into its chunk, and the base of its slot window on
// the operand stack (spec.md §3 "Frame stack").
type callFrame struct {
	closure  *Closure
	ip       int
	slotBase int
}

func (f *callFrame) line() int {
	if f.ip == 0 || f.ip > len(f.closure.Function.Chunk.Lines) {
		return 0
	}
	return int(f.closure.Function.Chunk.Lines[f.ip-1])
}
