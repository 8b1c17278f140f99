// Package replcmd is the command dispatch layer for the rlox binary: a
// REPL when invoked with no file argument, or a single-file run when
// given one, per spec.md §7's CLI contract.
package replcmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/jonkgrimes/rlox/lang/compiler"
	"github.com/jonkgrimes/rlox/lang/machine"
	"github.com/jonkgrimes/rlox/lang/parser"
	"github.com/jonkgrimes/rlox/lang/token"
)

const binName = "rlox"

var shortUsage = fmt.Sprintf(`usage: %s [<script>]
Run '%[1]s --help' for details.
`, binName)

var longUsage = fmt.Sprintf(`usage: %s [<script>]
       %[1]s -h|--help
       %[1]s -v|--version

A bytecode-compiled interpreter for the Lox scripting language.

With no <script>, %[1]s starts an interactive REPL: each line is
compiled and run against a single shared VM, so variable and function
declarations persist across lines.

With <script>, %[1]s compiles and runs the file, then exits.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version               Print version and exit.
`, binName)

// Cmd is the rlox command, parsed and dispatched by mainer.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
}

func (c *Cmd) SetArgs(args []string)      { c.args = args }
func (c *Cmd) SetFlags(_ map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return errors.New("at most one script path may be given")
	}
	return nil
}

// Main parses args and dispatches to the REPL or file runner, returning
// the process exit code spec.md §7 mandates: 0 success, 64 usage error,
// 65 compile error, 70 runtime error.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.ExitCode(64)
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if len(c.args) == 1 {
		return RunFile(ctx, stdio, c.args[0])
	}
	return RunREPL(ctx, stdio)
}

// RunFile compiles and runs a single script file against a fresh VM.
func RunFile(_ context.Context, stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return mainer.InvalidArgs
	}

	file := &token.File{Name: path}
	chunk, err := parser.Parse(file, string(src))
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(65)
	}
	prog, err := compiler.Compile(file, chunk)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(65)
	}

	vm := machine.New()
	vm.Stdout = stdio.Stdout
	vm.Stderr = stdio.Stderr
	if err := vm.Interpret(prog); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(70)
	}
	return mainer.Success
}

// RunREPL reads one line at a time from stdio.Stdin, compiling and
// running each against the same VM so declarations persist across
// lines (spec.md §6 "interactive REPL reading one line at a time").
func RunREPL(ctx context.Context, stdio mainer.Stdio) mainer.ExitCode {
	vm := machine.New()
	vm.Stdout = stdio.Stdout
	vm.Stderr = stdio.Stderr

	scan := bufio.NewScanner(stdio.Stdin)
	lineNo := 0
	for {
		select {
		case <-ctx.Done():
			return mainer.Success
		default:
		}

		fmt.Fprint(stdio.Stdout, "> ")
		if !scan.Scan() {
			fmt.Fprintln(stdio.Stdout)
			return mainer.Success
		}
		lineNo++
		line := scan.Text()
		if line == "" {
			continue
		}

		file := &token.File{Name: "repl"}
		chunk, err := parser.Parse(file, line)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		prog, err := compiler.Compile(file, chunk)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		if err := vm.Interpret(prog); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
		}
	}
}
