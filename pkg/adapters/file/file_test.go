package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/codec"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
	"github.com/aretw0/arbor/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunModelStoreContract(t, file.NewStore(t.TempDir()))
}

func TestFileStream_Contract(t *testing.T) {
	ports.RunStreamContract(t, func(t *testing.T) (ports.Writer, func() (ports.Reader, error)) {
		path := filepath.Join(t.TempDir(), "stream.bin")
		w, err := file.Create(path)
		require.NoError(t, err)
		return w, func() (ports.Reader, error) { return file.Open(path) }
	})
}

func TestFileStore_AtomicOverwrite(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()
	m := model.New("neg", domain.NewSignature([]domain.InputType{domain.InputContinuous}, nil),
		ast.MustParse(`(neg (param 0))`))

	require.NoError(t, store.Save(ctx, m))
	require.NoError(t, store.Save(ctx, m))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files should remain")
	assert.Equal(t, "neg.arbor", entries[0].Name())
}

func TestFileStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.arbor"), []byte("bad\x00\x01"), 0o644))

	_, err := file.NewStore(dir).Load(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrModelCorrupt)
	assert.ErrorIs(t, err, codec.ErrTruncated)
}

func TestFileStore_OverLimits(t *testing.T) {
	dir := t.TempDir()
	m := model.New("huge", domain.Signature{}, ast.MustParse("(block (setlocal 2000000000 1.0) 1.0)"))
	data, err := codec.MarshalModel(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "huge"+file.Ext), data, 0o644))

	_, err = file.NewStore(dir).Load(context.Background(), "huge")
	assert.ErrorIs(t, err, domain.ErrModelCorrupt)
	assert.ErrorIs(t, err, model.ErrTooLarge)

	_, err = file.NewLoader(dir).Load(context.Background(), "huge")
	assert.ErrorIs(t, err, model.ErrTooLarge)
}

func TestFileStore_RejectsPaths(t *testing.T) {
	store := file.NewStore(t.TempDir())
	_, err := store.Load(context.Background(), "../etc/passwd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrModelNotFound)
}

func TestFileReader_Seek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seek.bin")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	r, err := file.Open(path)
	require.NoError(t, err)
	defer func() { _ = r.Finish() }()

	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('0'), b)

	pos, err := r.Seek(2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)
	b, err = r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('3'), b)
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "double.yaml"),
		[]byte("inputs: [{name: x, type: continuous}]\ncode: (mul (param 0) 2.0)\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	m := model.New("neg", domain.NewSignature([]domain.InputType{domain.InputContinuous}, nil),
		ast.MustParse(`(neg (param 0))`))
	data, err := codec.MarshalModel(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "neg.arbor"), data, 0o644))

	loader := file.NewLoader(dir)
	ctx := context.Background()

	names, err := loader.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"double", "neg"}, names)

	got, err := loader.Load(ctx, "double")
	require.NoError(t, err)
	assert.Equal(t, "double", got.Name)

	got, err = loader.Load(ctx, "neg")
	require.NoError(t, err)
	assert.Equal(t, ast.Neg, got.Code.Kind())

	_, err = loader.Load(ctx, "notes")
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestLoader_Watch(t *testing.T) {
	dir := t.TempDir()
	loader := file.NewLoader(dir, file.WithPollInterval(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := loader.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.yaml"), []byte("code: 1.0\n"), 0o644))
	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}

	cancel()
	for range changes {
	}
}
