package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/testutils"
	"github.com/aretw0/arbor/pkg/domain"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestEngine(t *testing.T, cfg config.Config) *arbor.Engine {
	t.Helper()
	require.NoError(t, cfg.Validate())
	engine, closer, err := NewEngine(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })
	return engine
}

func roundTrip(t *testing.T, engine *arbor.Engine) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, engine.Save(ctx, testutils.LinearModel()))

	v, err := engine.Predict(ctx, "linear", testutils.Row(1, 1))
	require.NoError(t, err)
	assert.Equal(t, domain.Categorical(1), v)

	names, err := engine.Models(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "linear")
}

func TestNewEngine_Stores(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store = "memory"
		roundTrip(t, newTestEngine(t, cfg))
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store = "file"
		cfg.ModelsDir = t.TempDir()
		roundTrip(t, newTestEngine(t, cfg))
		_, err := os.Stat(filepath.Join(cfg.ModelsDir, "linear.arbor"))
		assert.NoError(t, err)
	})

	t.Run("badger", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store = "badger"
		cfg.Badger.InMemory = true
		roundTrip(t, newTestEngine(t, cfg))
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Store = "redis"
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = mr.Addr()
		roundTrip(t, newTestEngine(t, cfg))
	})

	t.Run("loam is read-only", func(t *testing.T) {
		cfg := config.Default()
		cfg.ModelsDir = t.TempDir()
		engine := newTestEngine(t, cfg)
		assert.ErrorIs(t, engine.Save(context.Background(), testutils.LinearModel()), arbor.ErrReadOnly)
	})
}

func TestNewEngine_Encryption(t *testing.T) {
	cfg := config.Default()
	cfg.Store = "file"
	cfg.ModelsDir = t.TempDir()
	cfg.EncryptionKey = testKey
	roundTrip(t, newTestEngine(t, cfg))

	data, err := os.ReadFile(filepath.Join(cfg.ModelsDir, "linear.arbor"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "arbor-aesgcm:v1:")

	cfg.Store = "loam"
	_, _, err = NewEngine(cfg, logging.NewNop())
	assert.Error(t, err, "encryption needs a store")
}

func TestParseRow(t *testing.T) {
	sig := testutils.LinearModel().Signature

	row, err := ParseRow(sig, []string{"1.5", "?"})
	require.NoError(t, err)
	assert.Equal(t, domain.Row{domain.Continuous(1.5), domain.MissingVariable()}, row)

	row, err = ParseRow(sig, []string{"y=2"})
	require.NoError(t, err)
	assert.Equal(t, domain.Row{domain.MissingVariable(), domain.Continuous(2)}, row)

	_, err = ParseRow(sig, []string{"1"})
	assert.ErrorIs(t, err, domain.ErrRowMismatch)

	_, err = ParseRow(sig, []string{"z=1"})
	assert.Error(t, err)

	_, err = ParseRow(sig, []string{"x=1", "2"})
	assert.Error(t, err)
}

func TestReadRows(t *testing.T) {
	sig := testutils.LinearModel().Signature
	input := "{\"x\": 1, \"y\": 2}\n\n{\"x\": 0.5}\n"

	rows, err := ReadRows(strings.NewReader(input), sig)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.Row{domain.Continuous(1), domain.Continuous(2)}, rows[0])
	assert.Equal(t, domain.Row{domain.Continuous(0.5), domain.MissingVariable()}, rows[1])

	_, err = ReadRows(strings.NewReader("{\"x\": \"a\"}\n"), sig)
	assert.ErrorContains(t, err, "line 1")
}
