package glox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironment_getAndAssign(t *testing.T) {
	global := newEnvironment(nil)
	global.define("a", Number(1))
	local := newEnvironment(global)
	local.define("b", String("two"))

	a, err := local.get(Token{Lexeme: "a"})
	require.NoError(t, err)
	assert.Equal(t, Number(1), a)

	require.NoError(t, local.assign(Token{Lexeme: "a"}, Number(3)))
	a, err = global.get(Token{Lexeme: "a"})
	require.NoError(t, err)
	assert.Equal(t, Number(3), a, "assign writes through to the defining scope")

	_, err = global.get(Token{Lexeme: "b"})
	assert.Error(t, err, "outer scopes can't see inner bindings")
}

func TestEnvironment_undefined(t *testing.T) {
	env := newEnvironment(nil)
	name := Token{Type: IDENTIFIER, Lexeme: "missing", Line: 7}

	_, err := env.get(name)
	var rte *RuntimeError
	require.ErrorAs(t, err, &rte)
	assert.Equal(t, "Undefined variable 'missing'.", rte.Message)
	assert.Equal(t, 7, rte.Token.Line)

	err = env.assign(name, Nil{})
	require.ErrorAs(t, err, &rte)
	assert.Equal(t, "Undefined variable 'missing'.", rte.Message)
}

func TestEnvironment_defineReplaces(t *testing.T) {
	env := newEnvironment(nil)
	env.define("a", Number(1))
	env.define("a", String("again"))
	v, err := env.get(Token{Lexeme: "a"})
	require.NoError(t, err)
	assert.Equal(t, String("again"), v)
}

func TestEnvironment_atDistance(t *testing.T) {
	outer := newEnvironment(nil)
	outer.define("x", String("outer"))
	middle := newEnvironment(outer)
	middle.define("x", String("middle"))
	inner := newEnvironment(middle)

	assert.Equal(t, String("middle"), inner.getAt(1, "x"))
	assert.Equal(t, String("outer"), inner.getAt(2, "x"))

	inner.assignAt(2, "x", String("changed"))
	assert.Equal(t, String("changed"), outer.getAt(0, "x"))
	assert.Equal(t, String("middle"), middle.getAt(0, "x"))
}

func TestEnvironment_atDistance_panicsOnMiss(t *testing.T) {
	outer := newEnvironment(nil)
	inner := newEnvironment(outer)

	assert.Panics(t, func() { inner.getAt(1, "x") })
	assert.Panics(t, func() { inner.assignAt(0, "x", Nil{}) })
	assert.Panics(t, func() { inner.getAt(5, "x") })
}
