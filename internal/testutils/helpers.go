package testutils

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// LinearModel is a two-input classifier returning #1 when
// 0.9*x - 0.2*y > 0 and #2 otherwise.
func LinearModel() *model.Model {
	sig := domain.NewSignature(
		[]domain.InputType{domain.InputContinuous, domain.InputContinuous},
		[]string{"x", "y"},
	)
	return model.New("linear", sig,
		ast.MustParse(`(if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)`))
}

// Row builds a row of continuous values.
func Row(values ...float32) domain.Row {
	row := make(domain.Row, len(values))
	for i, v := range values {
		row[i] = domain.Continuous(v)
	}
	return row
}
