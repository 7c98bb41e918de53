package ports

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

func contractModel(name string) *model.Model {
	sig := domain.NewSignature(
		[]domain.InputType{domain.InputContinuous, domain.InputText},
		[]string{"width", "label"},
	)
	code := ast.MustParse(`(if (gt (param 0) 1.5) (term_frequency (param 1) "spam") -1.0)`)
	return model.New(name, sig, code)
}

// RunModelStoreContract runs a suite of tests to verify that a ModelStore implementation
// adheres to the defined interface contract.
func RunModelStoreContract(t *testing.T, store ModelStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		m := contractModel(name)
		require.NoError(t, store.Save(ctx, m), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, m.Name, loaded.Name)
		assert.Equal(t, m.Signature, loaded.Signature)
		assert.True(t, ast.Equal(m.Code, loaded.Code), "code mismatch: %s", loaded.Code)
	})

	t.Run("Isolation", func(t *testing.T) {
		m := contractModel(name + "-iso")
		require.NoError(t, store.Save(ctx, m))
		defer func() { _ = store.Delete(ctx, m.Name) }()

		m.Code.ReplaceChild(2, ast.MustParse(`7.0`))
		loaded, err := store.Load(ctx, m.Name)
		require.NoError(t, err)
		assert.True(t, ast.Equal(contractModel(m.Name).Code, loaded.Code), "store must keep its own copy")
	})

	t.Run("Overwrite", func(t *testing.T) {
		m := contractModel(name)
		m.Code = ast.MustParse(`(param 0)`)
		require.NoError(t, store.Save(ctx, m))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, ast.Param, loaded.Code.Kind())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrModelNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractModel(name)))
		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrModelNotFound, "Load after Delete should return ErrModelNotFound")

		assert.NoError(t, store.Delete(ctx, name), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, contractModel(id2)))
		require.NoError(t, store.Save(ctx, contractModel(id1)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsNonDecreasing(t, names)
	})
}

// RunStreamContract checks a transport: bytes written through a Writer and
// finished must come back unchanged from the Reader opened afterwards.
// open returns a fresh Writer and a function opening a Reader over what the
// Writer produced.
func RunStreamContract(t *testing.T, open func(t *testing.T) (Writer, func() (Reader, error))) {
	payload := bytes.Repeat([]byte("arbor\x00\xff"), 4096)

	t.Run("Round trip", func(t *testing.T) {
		w, reopen := open(t)
		n, err := w.Write(payload[:10])
		require.NoError(t, err)
		assert.Equal(t, 10, n)
		_, err = w.Write(payload[10:])
		require.NoError(t, err)
		require.NoError(t, w.Finish())

		r, err := reopen()
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
		require.NoError(t, r.Finish())
	})

	t.Run("Finish is final", func(t *testing.T) {
		w, reopen := open(t)
		_, err := w.Write([]byte("x"))
		require.NoError(t, err)
		require.NoError(t, w.Finish())
		assert.NoError(t, w.Finish())
		_, err = w.Write([]byte("y"))
		assert.ErrorIs(t, err, ErrFinished)

		r, err := reopen()
		require.NoError(t, err)
		require.NoError(t, r.Finish())
		_, err = r.Read(make([]byte, 1))
		assert.ErrorIs(t, err, ErrFinished)
	})

	t.Run("Empty", func(t *testing.T) {
		w, reopen := open(t)
		require.NoError(t, w.Finish())
		r, err := reopen()
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Empty(t, got)
		require.NoError(t, r.Finish())
	})
}
