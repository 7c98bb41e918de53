package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OpcodesRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := KindByOpcode(k.Opcode())
		require.True(t, ok, "opcode of %s not registered", k)
		assert.Equal(t, k, got)

		byName, ok := KindByName(k.String())
		require.True(t, ok)
		assert.Equal(t, k, byName)
	}
}

func TestRegistry_UnknownOpcode(t *testing.T) {
	_, ok := KindByOpcode(0x00)
	assert.False(t, ok)
	_, ok = KindByOpcode(0xff)
	assert.False(t, ok)
	assert.False(t, Invalid.Valid())
	assert.Equal(t, "kind(200)", Kind(200).String())
}

func TestRegistry_ShapeFlags(t *testing.T) {
	for _, k := range Kinds() {
		info := k.Info()
		assert.False(t, info.Has(HasChildren) && info.Has(HasEmbeddedValue), "%s has both payloads", k)
		if info.Has(HasEmbeddedValue) {
			assert.Equal(t, 0, info.MaxArgs, "%s leaf with arity", k)
		}
		if info.Has(IsInfix) {
			assert.Equal(t, 2, info.MinArgs, "%s infix must be binary", k)
			assert.True(t, info.FixedArity())
		}
		assert.LessOrEqual(t, info.MinArgs, info.MaxArgs)
	}
}
