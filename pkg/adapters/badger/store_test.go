package badger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/adapters/badger"
	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
	"github.com/aretw0/arbor/pkg/ports"
)

func TestBadgerStore_Contract(t *testing.T) {
	store, err := badger.Open(badger.Config{InMemory: true})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ports.RunModelStoreContract(t, store)
}

func TestBadgerStore_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	m := model.New("neg", domain.NewSignature([]domain.InputType{domain.InputContinuous}, nil),
		ast.MustParse(`(neg (param 0))`))

	store, err := badger.Open(badger.Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, m))
	require.NoError(t, store.Close())

	store, err = badger.Open(badger.Config{Path: dir})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	got, err := store.Load(ctx, "neg")
	require.NoError(t, err)
	assert.True(t, ast.Equal(m.Code, got.Code))
}

func TestBadgerStore_RequiresPath(t *testing.T) {
	_, err := badger.Open(badger.Config{})
	assert.Error(t, err)
}
