package machine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonkgrimes/rlox/lang/machine"
)

func TestInternerReturnsSamePointerForEqualStrings(t *testing.T) {
	in := machine.NewInterner()
	a := in.Intern("hello")
	b := in.Intern("hello")
	assert.Same(t, a, b)
}

func TestInternerConcatInterns(t *testing.T) {
	in := machine.NewInterner()
	a := in.Intern("foo")
	b := in.Intern("bar")
	c := in.Concat(a, b)
	assert.Equal(t, "foobar", c.String())
	assert.Same(t, c, in.Intern("foobar"))
}

func TestValueEqualityUsesIdentityForInternedStrings(t *testing.T) {
	in := machine.NewInterner()
	a := machine.Value(in.Intern("x"))
	b := machine.Value(in.Intern("x"))
	assert.True(t, machine.Equal(a, b))
}

func TestIsFalsey(t *testing.T) {
	assert.True(t, machine.IsFalsey(machine.Nil))
	assert.True(t, machine.IsFalsey(machine.Bool(false)))
	assert.False(t, machine.IsFalsey(machine.Bool(true)))
	assert.False(t, machine.IsFalsey(machine.Number(0)))
}
