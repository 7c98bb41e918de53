package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/eval"
	"github.com/aretw0/arbor/pkg/model"
)

func linearModel(t *testing.T) *model.Model {
	t.Helper()
	sig := domain.NewSignature(
		[]domain.InputType{domain.InputContinuous, domain.InputContinuous},
		[]string{"x", "y"},
	)
	code := ast.MustParse(`(if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)`)
	return model.New("linear", sig, code)
}

func modelOf(t *testing.T, src string, types ...domain.InputType) *model.Model {
	t.Helper()
	return model.New("m", domain.NewSignature(types, nil), ast.MustParse(src))
}

func TestBackends_TablesAreTotal(t *testing.T) {
	for _, id := range Languages() {
		t.Run(id, func(t *testing.T) {
			assert.Empty(t, MissingKinds(Lookup(id)))
		})
	}
}

func TestLookup(t *testing.T) {
	assert.Equal(t, "python", Lookup("").Name())
	assert.Equal(t, "python", Lookup("cobol").Name())
	assert.Equal(t, "c", Lookup("c++").Name())
	assert.Equal(t, "javascript", Lookup("js").Name())
	assert.Equal(t, "ruby", Lookup("rb").Name())
	assert.True(t, Known("c"))
	assert.False(t, Known("cobol"))
	assert.Equal(t, []string{"c", "c++", "javascript", "js", "python", "rb", "ruby"}, Languages())
}

func TestGenerate_PythonLinear(t *testing.T) {
	src, diags, err := Generate(linearModel(t), "python")
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, `def predict(x, y):
    if x * 0.9 + y * -0.2 > 0.0:
        return 1
    else:
        return 2
`, src)
}

func TestGenerate_CLinear(t *testing.T) {
	src, _, err := Generate(linearModel(t), "c")
	require.NoError(t, err)
	assert.Equal(t, `#include <math.h>
#include <stdlib.h>
#include <string.h>

int predict(float x, float y) {
    if (x * 0.9f + y * -0.2f > 0.0f) {
        return 1;
    } else {
        return 2;
    }
}
`, src)
}

func TestGenerate_JavaScriptLinear(t *testing.T) {
	src, _, err := Generate(linearModel(t), "javascript")
	require.NoError(t, err)
	assert.Equal(t, `function predict(x, y) {
  if (x * 0.9 + y * -0.2 > 0.0) {
    return 1;
  } else {
    return 2;
  }
}
`, src)
}

func TestGenerate_RubyLinear(t *testing.T) {
	src, _, err := Generate(linearModel(t), "ruby")
	require.NoError(t, err)
	assert.Equal(t, `def predict(x, y)
  if x * 0.9 + y * -0.2 > 0.0
    return 1
  else
    return 2
  end
end
`, src)
}

func TestGenerate_Brackets(t *testing.T) {
	types := []domain.InputType{domain.InputContinuous, domain.InputContinuous, domain.InputContinuous}
	grouped := modelOf(t, `(mul (add (param 0) (param 1)) (param 2))`, types...)
	flat := modelOf(t, `(add (mul (param 0) (param 1)) (param 2))`, types...)

	for _, id := range []string{"python", "c", "javascript", "ruby"} {
		t.Run(id, func(t *testing.T) {
			src, _, err := Generate(grouped, id)
			require.NoError(t, err)
			assert.Contains(t, src, "(p0 + p1) * p2")

			src, _, err = Generate(flat, id)
			require.NoError(t, err)
			assert.Contains(t, src, "p0 * p1 + p2")
			assert.NotContains(t, src, "(p0 *")
		})
	}
}

func TestGenerate_RightOperandAtEqualPrecedence(t *testing.T) {
	m := modelOf(t, `(sub (param 0) (sub (param 1) (param 2)))`,
		domain.InputContinuous, domain.InputContinuous, domain.InputContinuous)
	src, _, err := Generate(m, "python")
	require.NoError(t, err)
	assert.Contains(t, src, "return p0 - (p1 - p2)")
}

func TestGenerate_Loops(t *testing.T) {
	m := modelOf(t, `(block
		(setlocal 0 (new_array 3 0))
		(for_local 1 3 (array_at_pos_inc 0 (getlocal 1)))
		(int_to_category (array_argmax_index (getlocal 0))))`)

	tests := map[string][]string{
		"python": {
			"def _argmax(values):",
			"v0 = [0 for _ in range(3)]",
			"for v1 in range(3):",
			"        v0[v1] += 1",
			"return int(_argmax(v0))",
		},
		"c": {
			"int v0_buf[3];",
			"int *v0;",
			"int v1;",
			"v0 = fill_i(v0_buf, 3, 0);",
			"for (v1 = 0; v1 < 3; v1++) {",
			"v0[v1]++;",
			"return (argmax_i(3, v0));",
		},
		"javascript": {
			"let v0, v1;",
			"v0 = Array.from({ length: 3 }, () => 0);",
			"for (v1 = 0; v1 < 3; v1++) {",
			"return Math.trunc(argmax(v0));",
		},
		"ruby": {
			"v0 = Array.new(3) { 0 }",
			"for v1 in 0...3",
			"v0[v1] += 1",
			"return (argmax(v0)).to_i",
		},
	}
	for id, wants := range tests {
		t.Run(id, func(t *testing.T) {
			src, diags, err := Generate(m, id)
			require.NoError(t, err, "%v", diags)
			for _, want := range wants {
				assert.Contains(t, src, want)
			}
		})
	}
}

func TestGenerate_CStrings(t *testing.T) {
	m := model.New("m",
		domain.NewSignature([]domain.InputType{domain.InputText}, []string{"word"}),
		ast.MustParse(`(if (eq (param 0) "a\"b") 1.0 (term_frequency (param 0) "x"))`))
	src, _, err := Generate(m, "c")
	require.NoError(t, err)
	assert.Contains(t, src, "#include <ctype.h>")
	assert.Contains(t, src, "float predict(const char *word) {")
	assert.Contains(t, src, `if ((strcmp(word, "a\"b") == 0)) {`)
	assert.Contains(t, src, `return term_frequency(word, "x");`)
}

func TestGenerate_ConsumedIfIsTernary(t *testing.T) {
	m := modelOf(t, `(add (if (gt (param 0) 0.0) 1.0 2.0) 3.0)`, domain.InputContinuous)

	src, _, err := Generate(m, "python")
	require.NoError(t, err)
	assert.Contains(t, src, "return (1.0 if p0 > 0.0 else 2.0) + 3.0")

	src, _, err = Generate(m, "javascript")
	require.NoError(t, err)
	assert.Contains(t, src, "return (p0 > 0.0 ? 1.0 : 2.0) + 3.0;")
}

func TestGenerate_ParamNames(t *testing.T) {
	m := model.New("m",
		domain.NewSignature(
			[]domain.InputType{domain.InputContinuous, domain.InputContinuous, domain.InputContinuous},
			[]string{"Petal Width", "return", "predict"},
		),
		ast.MustParse(`(add (add (param 0) (param 1)) (param 2))`))

	src, _, err := Generate(m, "ruby")
	require.NoError(t, err)
	assert.Contains(t, src, "def predict(petal_Width, return_, predict_)")
}

func TestGenerate_ConsumedSideEffectIsUnsupported(t *testing.T) {
	m := modelOf(t, `(add (block 1.0 2.0) 3.0)`)
	_, diags, err := Generate(m, "python")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
	require.NotEmpty(t, diags)
	assert.Equal(t, Error, diags[0].Severity)
	assert.Equal(t, ast.Block, diags[0].Kind)
}

func TestGenerate_DoesNotModifyModel(t *testing.T) {
	m := linearModel(t)
	before := ast.Format(m.Code)
	_, _, err := Generate(m, "c")
	require.NoError(t, err)
	assert.Equal(t, before, ast.Format(m.Code))
}

func TestInferType(t *testing.T) {
	m := modelOf(t, `(block
		(setlocal 0 (new_array 2 1.5))
		(setlocal 1 (add (param 0) 2))
		(array_at_pos (getlocal 0) 0))`, domain.InputCategorical)
	ctx := newContext(m, m.Code, Lookup("python"))

	tests := []struct {
		path []int
		want domain.Type
	}{
		{[]int{0, 1}, domain.TypeFloatArray},
		{[]int{1, 1}, domain.TypeCategory},
		{[]int{2}, domain.TypeFloat},
		{nil, domain.TypeFloat},
	}
	for _, tt := range tests {
		n := m.Code
		for _, i := range tt.path {
			n = n.Child(i)
		}
		assert.Equal(t, tt.want, InferType(n, ctx), "at %v", tt.path)
	}
	assert.Empty(t, ctx.Diagnostics)
}

func TestStaticLen(t *testing.T) {
	root := ast.MustParse(`(block
		(setlocal 0 [1 2 3])
		(setlocal 1 (getlocal 0))
		(array_len (getlocal 1)))`)
	n, ok := StaticLen(root.Child(2).Child(0))
	require.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = StaticLen(ast.MustParse(`(param 0)`))
	assert.False(t, ok)
}

func TestEmitter(t *testing.T) {
	e := NewEmitter("  ")
	e.Line("a:")
	e.Indent()
	e.Write("b\nc\n")
	e.Indent()
	e.Printf("%s\n", "d")
	e.Dedent()
	e.Dedent()
	e.Dedent()
	e.Line("e")
	e.Newline()
	assert.Equal(t, "a:\n  b\n  c\n    d\ne\n\n", e.String())
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"a\"b\\c\n\001"`, quote("a\"b\\c\n\x01", escapeOctal, ""))
	assert.Equal(t, `"\x01\#{x}"`, quote("\x01#{x}", escapeHex, "#"))
	assert.True(t, strings.HasPrefix(quote("é", escapeHex, ""), `"é`))
}

func TestGenerate_EqualityIsNumeric(t *testing.T) {
	m := model.New("eq", domain.NewSignature([]domain.InputType{domain.InputCategorical}, []string{"c"}),
		ast.MustParse(`(if (eq (param 0) 1.0) #1 #2)`))

	// The evaluator keeps categories and floats apart.
	assert.Equal(t, domain.Categorical(2), eval.Predict(m, domain.Row{domain.Categorical(1)}))

	// Generated code has no category type and compares the raw numbers.
	for id, want := range map[string]string{
		"python":     "c == 1.0",
		"javascript": "c === 1.0",
		"ruby":       "c == 1.0",
	} {
		src, _, err := Generate(m, id)
		require.NoError(t, err, id)
		assert.Contains(t, src, want, id)
	}
}
