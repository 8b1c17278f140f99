package machine_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonkgrimes/rlox/lang/compiler"
	"github.com/jonkgrimes/rlox/lang/machine"
	"github.com/jonkgrimes/rlox/lang/parser"
	"github.com/jonkgrimes/rlox/lang/token"
)

// run compiles and interprets src on a fresh VM, returning everything it
// printed. It mirrors the end-to-end scenarios of spec.md §8.
func run(t *testing.T, src string) string {
	t.Helper()
	file := &token.File{Name: "test"}
	chunk, err := parser.Parse(file, src)
	require.NoError(t, err)
	prog, err := compiler.Compile(file, chunk)
	require.NoError(t, err)

	var out bytes.Buffer
	vm := machine.New()
	vm.Stdout = &out
	require.NoError(t, vm.Interpret(prog))
	return out.String()
}

func TestFibonacci(t *testing.T) {
	src := `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`
	assert.Equal(t, "55\n", run(t, src))
}

func TestClosureCounter(t *testing.T) {
	src := `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var counter = makeCounter();
		counter();
		counter();
		counter();
	`
	assert.Equal(t, "1\n2\n3\n", run(t, src))
}

func TestStringConcatenation(t *testing.T) {
	src := `print "foo" + "bar";`
	assert.Equal(t, "foobar\n", run(t, src))
}

func TestForLoopSummation(t *testing.T) {
	src := `
		var sum = 0;
		for (var i = 1; i <= 5; i = i + 1) {
			sum = sum + i;
		}
		print sum;
	`
	assert.Equal(t, "15\n", run(t, src))
}

func TestScopingShadowing(t *testing.T) {
	src := `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`
	assert.Equal(t, "inner\nouter\n", run(t, src))
}

func TestArithmeticPrecedence(t *testing.T) {
	src := `print 2 + 3 * 4 - 1;`
	assert.Equal(t, "13\n", run(t, src))
}

func TestWhileLoop(t *testing.T) {
	src := `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`
	assert.Equal(t, "0\n1\n2\n", run(t, src))
}

func TestLogicalShortCircuit(t *testing.T) {
	src := `
		fun sideEffect() {
			print "called";
			return true;
		}
		print false and sideEffect();
		print true or sideEffect();
	`
	assert.Equal(t, "false\ntrue\n", run(t, src))
}

func TestSharedUpvalueMutation(t *testing.T) {
	// Two closures capturing the same local must observe each other's
	// writes: the canonical closure-over-mutable-local scenario.
	src := `
		fun pair() {
			var shared = 0;
			fun inc() { shared = shared + 1; }
			fun get() { return shared; }
			inc();
			inc();
			print get();
		}
		pair();
	`
	assert.Equal(t, "2\n", run(t, src))
}

func TestRuntimeErrorUndefinedVariable(t *testing.T) {
	file := &token.File{Name: "test"}
	chunk, err := parser.Parse(file, "print missing;")
	require.NoError(t, err)
	prog, err := compiler.Compile(file, chunk)
	require.NoError(t, err)

	vm := machine.New()
	var out bytes.Buffer
	vm.Stdout = &out
	err = vm.Interpret(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'missing'.")
}

func TestRuntimeErrorOperandMustBeNumber(t *testing.T) {
	file := &token.File{Name: "test"}
	chunk, err := parser.Parse(file, `print -"nope";`)
	require.NoError(t, err)
	prog, err := compiler.Compile(file, chunk)
	require.NoError(t, err)

	vm := machine.New()
	err = vm.Interpret(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operand must be a number.")
}
