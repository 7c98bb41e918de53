package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
)

func run(t *testing.T, src string, row ...domain.Variable) domain.Constant {
	t.Helper()
	n, err := ast.Parse(src)
	require.NoError(t, err)
	return Evaluate(n, ForTree(row, n))
}

func TestEvaluate_Kinds(t *testing.T) {
	tests := []struct {
		src  string
		want domain.Constant
	}{
		{`(add 2 3)`, domain.Int(5)},
		{`(add 2 0.5)`, domain.Float(2.5)},
		{`(sub 2 5)`, domain.Int(-3)},
		{`(mul 1.5 2)`, domain.Float(3)},
		{`(div 3 2)`, domain.Float(1.5)},
		{`(neg 4)`, domain.Int(-4)},
		{`(sqr -1.5)`, domain.Float(2.25)},
		{`(abs -3)`, domain.Int(3)},
		{`(sqrt 16)`, domain.Float(4)},
		{`(exp 0)`, domain.Float(1)},
		{`(lt 1 2.0)`, domain.Bool(true)},
		{`(gte 2 2)`, domain.Bool(true)},
		{`(eq 1 1.0)`, domain.Bool(false)},
		{`(eq "a" "a")`, domain.Bool(true)},
		{`(and true false)`, domain.Bool(false)},
		{`(or true false)`, domain.Bool(true)},
		{`(not false)`, domain.Bool(true)},
		{`(in #2 [#1 #2])`, domain.Bool(true)},
		{`(in 2 [#1 #2])`, domain.Bool(false)},
		{`(is_missing missing)`, domain.Bool(true)},
		{`(argmax_i 1 7 7)`, domain.Category(1)},
		{`(array_argmax_index [0.5 2.5 2.5])`, domain.Int(1)},
		{`(array_at_pos ["a" "b"] 1)`, domain.String("b")},
		{`(array_len (new_array 4 0.0))`, domain.Int(4)},
		{`(int_to_float 3)`, domain.Float(3)},
		{`(int_to_category 3)`, domain.Category(3)},
		{`(term_frequency "buy now buy" "buy")`, domain.Float(float32(2) / 3)},
		{`(term_frequency "" "buy")`, domain.Float(0)},
		{`(block (nop) 1)`, domain.Int(1)},
		{`(nop)`, domain.Missing{}},
		{`(return (brackets 2))`, domain.Int(2)},
		{`(if false 1 2)`, domain.Int(2)},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := run(t, tt.src)
			assert.True(t, domain.Equal(tt.want, got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestEvaluate_ArgMaxTieBreak(t *testing.T) {
	got := run(t, `(argmax 3.0 5.0 5.0 1.0)`)
	assert.Equal(t, domain.Category(1), got)
}

func TestEvaluate_LinearBoundary(t *testing.T) {
	src := `(if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)`
	assert.Equal(t, domain.Category(1), run(t, src, domain.Continuous(2), domain.Continuous(1)))
	assert.Equal(t, domain.Category(2), run(t, src, domain.Continuous(0), domain.Continuous(1)))
}

func TestEvaluate_IfEvaluatesOneArm(t *testing.T) {
	got := run(t, `(block
		(setlocal 0 0)
		(if true (inclocal 0) (block (inclocal 0) (inclocal 0)))
		(getlocal 0))`)
	assert.Equal(t, domain.Int(1), got)
}

func TestEvaluate_ParamConversion(t *testing.T) {
	assert.Equal(t, domain.Category(4), run(t, `(param 0)`, domain.Categorical(4)))
	assert.Equal(t, domain.String("x"), run(t, `(param 0)`, domain.Text("x")))
	assert.Equal(t, domain.Missing{}, run(t, `(param 0)`, domain.MissingVariable()))
}

const knnVote = `(block
	(setlocal 0 (new_array 3 0))
	(for_local 1 3 (array_at_pos_inc 0 (array_at_pos [2 1 2] (getlocal 1))))
	(int_to_category (array_argmax_index (getlocal 0))))`

const literalCounter = `(block
	(setlocal 0 [0 0])
	(array_at_pos_inc 0 1)
	(array_at_pos (getlocal 0) 1))`

func TestEvaluate_Deterministic(t *testing.T) {
	for _, src := range []string{knnVote, literalCounter} {
		n := ast.MustParse(src)
		first := Evaluate(n, ForTree(nil, n))
		second := Evaluate(n, ForTree(nil, n))
		assert.True(t, domain.Equal(first, second), "%s: %s != %s", src, first, second)
	}
	assert.Equal(t, domain.Category(2), run(t, knnVote))
	assert.Equal(t, domain.Int(1), run(t, literalCounter))
}

func TestEvaluate_Violations(t *testing.T) {
	tests := map[string]string{
		"param out of range": `(param 3)`,
		"unset local":        `(block (setlocal 1 0) (getlocal 0))`,
		"inc non int":        `(block (setlocal 0 1.0) (inclocal 0))`,
		"typed accessor":     `(not 1)`,
		"array index":        `(array_at_pos [1] 4)`,
		"empty argmax":       `(array_argmax_index int_array[])`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			defer func() {
				_, ok := recover().(*domain.InvariantError)
				assert.True(t, ok, "expected an invariant violation")
			}()
			run(t, src)
		})
	}
}
