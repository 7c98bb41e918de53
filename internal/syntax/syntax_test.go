package syntax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/internal/testutils"
	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/codegen"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

func votingModel() *model.Model {
	sig := domain.NewSignature(
		[]domain.InputType{domain.InputContinuous, domain.InputCategorical},
		[]string{"dist", "label"},
	)
	code := ast.MustParse(`(block
		(setlocal 0 (new_array 3 0))
		(for_local 1 3
			(if (lt (param 0) (int_to_float (getlocal 1)))
				(array_at_pos_inc 0 (getlocal 1))
				(nop)))
		(if (in (param 1) [#1 #2])
			(int_to_category (array_argmax_index (getlocal 0)))
			#0))`)
	return model.New("vote", sig, code)
}

func TestCheck_GeneratedCodeParses(t *testing.T) {
	ctx := context.Background()
	for _, m := range []*model.Model{testutils.LinearModel(), votingModel()} {
		for _, lang := range codegen.Languages() {
			src, _, err := codegen.Generate(m, lang)
			require.NoError(t, err, "%s/%s", m.Name, lang)
			assert.NoError(t, Check(ctx, lang, src), "%s/%s:\n%s", m.Name, lang, src)
		}
	}
}

func TestCheck_ReportsErrors(t *testing.T) {
	err := Check(context.Background(), "python", "def predict(x:\n  return (x +\n")
	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.NotEmpty(t, errs)
	assert.Equal(t, 1, errs[0].Line)

	err = Check(context.Background(), "c", "int predict(float x) { return x + ; }")
	assert.Error(t, err)
}

func TestGrammar(t *testing.T) {
	assert.NotNil(t, Grammar("rb"))
	assert.NotNil(t, Grammar("js"))
	assert.NotNil(t, Grammar("c++"))
	assert.NotNil(t, Grammar("unknown"), "unknown ids fall back to python")
}
