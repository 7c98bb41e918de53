package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/internal/testutils"
	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
)

func newLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	dir, repo := testutils.SetupTestRepo(t)
	for filename, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644))
	}
	return New(loam.NewTypedRepository[ModelMetadata](repo))
}

func TestLoader_MarkdownBodyIsCode(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"linear.md": `---
description: separates two classes
inputs:
  - name: x
    type: continuous
  - name: y
    type: continuous
---
(if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)`,
	})

	m, err := loader.Load(context.Background(), "linear")
	require.NoError(t, err)
	assert.Equal(t, "linear", m.Name)
	assert.Equal(t, []string{"x", "y"}, m.Signature.Names)
	assert.Equal(t, ast.If, m.Code.Kind())
}

func TestLoader_FencedBody(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"neg.md": "---\ninputs:\n  - type: continuous\n---\n```lisp\n(neg (param 0))\n```\n",
	})

	m, err := loader.Load(context.Background(), "neg")
	require.NoError(t, err)
	assert.Equal(t, ast.Neg, m.Code.Kind())
}

func TestLoader_CodeKey(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"double.yaml": "inputs:\n  - {name: x, type: continuous}\ncode: (mul (param 0) 2.0)\n",
	})

	m, err := loader.Load(context.Background(), "double")
	require.NoError(t, err)
	assert.Equal(t, ast.Mul, m.Code.Kind())
}

func TestLoader_List_NormalizesIDs(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"a.md":   "---\ninputs: []\n---\n1.0",
		"b.json": `{"code": "2.0"}`,
		"c.yaml": "code: 3.0\n",
	})

	names, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestLoader_List_DetectsCollisions(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"foo.md":   "---\ninputs: []\n---\n1.0",
		"foo.json": `{"code": "1.0"}`,
	})

	_, err := loader.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "foo")
}

func TestLoader_NotFound(t *testing.T) {
	loader := newLoader(t, map[string]string{"a.md": "---\ninputs: []\n---\n1.0"})

	_, err := loader.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, "(param 0)", stripFence("```\n(param 0)\n```"))
	assert.Equal(t, "(param 0)", stripFence("  (param 0)\n"))
}
