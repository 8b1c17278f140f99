package machine

import (
	"fmt"
	"strings"
)

// TraceFrame is one line of a RuntimeError's stack trace: the function
// name and the source line active in it when the error was raised.
type TraceFrame struct {
	Name string
	Line int
}

// RuntimeError is returned by Interpret when the VM aborts mid-execution
// (spec.md §7). Its Error method renders the message followed by a stack
// trace, innermost frame first, matching the reference interpreter.
type RuntimeError struct {
	Message string
	Trace   []TraceFrame
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, fr := range e.Trace {
		b.WriteByte('\n')
		name := fr.Name
		if name == "" {
			name = "script"
		} else {
			name = fmt.Sprintf("%s()", name)
		}
		fmt.Fprintf(&b, "[line %d] in %s", fr.Line, name)
	}
	return b.String()
}
