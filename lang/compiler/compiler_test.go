package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonkgrimes/rlox/lang/compiler"
	"github.com/jonkgrimes/rlox/lang/parser"
	"github.com/jonkgrimes/rlox/lang/token"
)

func compile(t *testing.T, src string) (*compiler.Program, error) {
	t.Helper()
	file := &token.File{Name: "test"}
	chunk, err := parser.Parse(file, src)
	require.NoError(t, err)
	return compiler.Compile(file, chunk)
}

func TestCompileArithmeticEmitsExpectedOpcodes(t *testing.T) {
	prog, err := compile(t, "print 1 + 2 * 3;")
	require.NoError(t, err)

	dis := compiler.Disassemble(prog)
	assert.Contains(t, dis, "OP_CONSTANT")
	assert.Contains(t, dis, "OP_MULTIPLY")
	assert.Contains(t, dis, "OP_ADD")
	assert.Contains(t, dis, "OP_PRINT")
}

func TestCompileGlobalVarDefinesAndReads(t *testing.T) {
	prog, err := compile(t, "var x = 1; print x;")
	require.NoError(t, err)

	dis := compiler.Disassemble(prog)
	assert.Contains(t, dis, "OP_DEFINE_GLOBAL")
	assert.Contains(t, dis, "OP_GET_GLOBAL")
}

func TestCompileLocalUsesSlotOpcodes(t *testing.T) {
	prog, err := compile(t, "{ var x = 1; print x; }")
	require.NoError(t, err)

	dis := compiler.Disassemble(prog)
	assert.Contains(t, dis, "OP_GET_LOCAL")
	assert.NotContains(t, dis, "OP_GET_GLOBAL")
}

func TestCompileFunctionEmitsClosure(t *testing.T) {
	prog, err := compile(t, "fun f(a, b) { return a + b; } print f(1, 2);")
	require.NoError(t, err)

	dis := compiler.Disassemble(prog)
	assert.Contains(t, dis, "OP_CLOSURE")
	assert.Contains(t, dis, "OP_CALL")
	assert.Contains(t, dis, "fn f")
}

func TestCompileClosureCapturesUpvalue(t *testing.T) {
	prog, err := compile(t, `
		fun outer() {
			var x = 1;
			fun inner() { return x; }
			return inner;
		}
	`)
	require.NoError(t, err)

	dis := compiler.Disassemble(prog)
	assert.Contains(t, dis, "OP_LOCAL_VALUE")
	assert.Contains(t, dis, "OP_GET_UPVALUE")
}

func TestCompileInvalidAssignmentTargetIsError(t *testing.T) {
	file := &token.File{Name: "test"}
	// Invalid assignment targets are rejected by the parser's Pratt driver,
	// before the compiler would see the expression.
	_, err := parser.Parse(file, `1 + 2 = 3;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid assignment target.")
}

func TestCompileDuplicateLocalIsError(t *testing.T) {
	_, err := compile(t, `{ var a = 1; var a = 2; }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Already a variable with this name in this scope.")
}

func TestCompileTooManyParametersIsError(t *testing.T) {
	var params string
	for i := 0; i < 256; i++ {
		if i > 0 {
			params += ", "
		}
		params += "a" + string(rune('a'+i%26))
	}
	file := &token.File{Name: "test"}
	// The parameter-count cap is enforced by the parser, which builds the
	// *ast.FunStmt the compiler would otherwise compile.
	_, err := parser.Parse(file, "fun f("+params+") { return 0; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't have more than 255 parameters.")
}

func TestCompileForLoopJumps(t *testing.T) {
	prog, err := compile(t, `
		for (var i = 0; i < 3; i = i + 1) {
			print i;
		}
	`)
	require.NoError(t, err)

	dis := compiler.Disassemble(prog)
	assert.Contains(t, dis, "OP_LOOP")
	assert.Contains(t, dis, "OP_JUMP_IF_FALSE")
}
