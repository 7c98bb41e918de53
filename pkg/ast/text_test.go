package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/domain"
)

func TestParse_LinearBoundary(t *testing.T) {
	n, err := Parse(`(if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)`)
	require.NoError(t, err)

	want := New(If,
		New(Gt,
			New(Add,
				New(Mul, ParamRef(0), Float(0.9)),
				New(Mul, ParamRef(1), Float(-0.2))),
			Float(0)),
		Category(1), Category(2))
	assert.True(t, Equal(want, n), "got %s", n)
}

func TestParse_Literals(t *testing.T) {
	tests := []struct {
		src  string
		want domain.Constant
	}{
		{"1.5", domain.Float(1.5)},
		{"1e3", domain.Float(1000)},
		{"42", domain.Int(42)},
		{"-7", domain.Int(-7)},
		{"#3", domain.Category(3)},
		{"true", domain.Bool(true)},
		{"missing", domain.Missing{}},
		{`"a b\n"`, domain.String("a b\n")},
		{"[1 2 3]", domain.Ints(1, 2, 3)},
		{"[#1 #2]", domain.Categories(1, 2)},
		{`[1 "x" 2.5]`, domain.Mixed(domain.Int(1), domain.String("x"), domain.Float(2.5))},
		{"float_array[]", domain.Floats()},
		{"[[1] [2.0]]", domain.Mixed(domain.Ints(1), domain.Floats(2))},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n, err := Parse(tt.src)
			require.NoError(t, err)
			assert.True(t, domain.Equal(tt.want, n.Value()), "got %s", n.Value())
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	sources := []string{
		`(if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)`,
		`(block (setlocal 0 (new_array 3 0)) (for_local 1 3 (array_at_pos_inc 0 (getlocal 1))) (int_to_category (array_argmax_index (getlocal 0))))`,
		`(in (param 0) [#1 #4 #9])`,
		`(term_frequency (param 0) "spam")`,
		`(argmax 0.5 1.5 (sqrt 2.0))`,
		`(eq "x" [1 "y" float_array[]])`,
		`(block (nop) missing)`,
	}
	for _, src := range sources {
		n := MustParse(src)
		again, err := Parse(Format(n))
		require.NoError(t, err, Format(n))
		assert.True(t, Equal(n, again), "%s != %s", Format(n), Format(again))

		indented, err := Parse(FormatIndent(n))
		require.NoError(t, err)
		assert.True(t, Equal(n, indented))
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown kind":   `(frobnicate 1)`,
		"arity":          `(add 1)`,
		"unclosed":       `(add 1 2`,
		"trailing":       `(nop) (nop)`,
		"bad category":   `#x`,
		"typed mismatch": `int_array[1.5]`,
		"unterminated":   `"abc`,
		"empty":          ``,
		"leaf operand":   `(param 1.5)`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(src)
			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestParse_Comments(t *testing.T) {
	n := MustParse("; linear model\n(add 1 ; one\n 2)")
	assert.Equal(t, Add, n.Kind())
}
