package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual_NoNumericCoercion(t *testing.T) {
	assert.True(t, Equal(Float(1), Float(1)))
	assert.False(t, Equal(Float(1), Int(1)))
	assert.False(t, Equal(Int(1), Category(1)))
	assert.True(t, Equal(Missing{}, Missing{}))
	assert.True(t, Equal(Ints(1, 2), Ints(1, 2)))
	assert.False(t, Equal(Ints(1, 2), Mixed(Int(1), Int(2))))
	assert.False(t, Equal(Ints(1, 2), Ints(1, 2, 3)))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(Float(1), Float(2)))
	assert.Equal(t, 0, Compare(String("a"), String("a")))
	// cross-type: order of the type tag, regardless of the values
	assert.Equal(t, -1, Compare(Float(100), Int(1)))
	assert.Equal(t, 1, Compare(String("a"), Bool(true)))
	assert.Equal(t, -1, Compare(Bool(false), Bool(true)))
	assert.Equal(t, -1, Compare(Ints(1), Ints(1, 0)))
}

func TestArray_TypedVariants(t *testing.T) {
	assert.Panics(t, func() { NewArray(TypeIntArray, Float(1)) })
	assert.Panics(t, func() { NewArray(TypeInt) })
	assert.NotPanics(t, func() { NewArray(TypeMixedArray, Float(1), String("x")) })

	a := Ints(1, 2)
	assert.Panics(t, func() { a.Set(0, Float(1)) })
	assert.Panics(t, func() { a.At(2) })

	c := a.Clone()
	c.Set(0, Int(5))
	assert.Equal(t, Int(1), a.At(0))

	assert.Equal(t, TypeFloatArray, InferArrayType([]Constant{Float(1), Float(2)}))
	assert.Equal(t, TypeMixedArray, InferArrayType(nil))
	assert.Equal(t, TypeMixedArray, InferArrayType([]Constant{Bool(true)}))
}

func TestAccessors_Violations(t *testing.T) {
	assert.Equal(t, float32(3), AsFloat(Int(3)))
	require.Panics(t, func() { AsFloat(Category(3)) })

	defer func() {
		r := recover()
		ie, ok := r.(*InvariantError)
		require.True(t, ok, "expected *InvariantError, got %T", r)
		assert.Equal(t, "AsInt", ie.Op)
	}()
	AsInt(Float(1))
}

func TestConstant_String(t *testing.T) {
	assert.Equal(t, "1.0", Float(1).String())
	assert.Equal(t, "-0.2", Float(-0.2).String())
	assert.Equal(t, "#4", Category(4).String())
	assert.Equal(t, `"a"`, String("a").String())
	assert.Equal(t, `[1 2]`, Ints(1, 2).String())
}
