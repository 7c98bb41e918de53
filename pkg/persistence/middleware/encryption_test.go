package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
	"github.com/aretw0/arbor/pkg/persistence/middleware"
	"github.com/aretw0/arbor/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func secretModel(name string) *model.Model {
	sig := domain.NewSignature([]domain.InputType{domain.InputText}, []string{"password"})
	return model.New(name, sig, ast.MustParse(`(eq (param 0) "hunter2")`))
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunModelStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	require.NoError(t, secure.Save(ctx, secretModel("gate")))

	stored, err := underlying.Load(ctx, "gate")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Signature.Len(), "inputs must be hidden")
	assert.NotContains(t, ast.Format(stored.Code), "hunter2")
	assert.NotContains(t, ast.Format(stored.Code), "password")

	loaded, err := secure.Load(ctx, "gate")
	require.NoError(t, err)
	assert.True(t, ast.Equal(secretModel("gate").Code, loaded.Code))
	assert.Equal(t, []string{"password"}, loaded.Signature.Names)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	secureOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, secureOld.Save(ctx, secretModel("gate")))

	secureNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := secureNew.Load(ctx, "gate")
	require.NoError(t, err, "fallback key should decrypt")

	require.NoError(t, secureNew.Save(ctx, loaded))
	_, err = secureOld.Load(ctx, "gate")
	assert.Error(t, err, "old key alone cannot read a model sealed with the new key")
}

func TestEncryptionMiddleware_RejectsSwappedEnvelopes(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	require.NoError(t, secure.Save(ctx, secretModel("a")))
	envelope, err := underlying.Load(ctx, "a")
	require.NoError(t, err)
	envelope.Name = "b"
	require.NoError(t, underlying.Save(ctx, envelope))

	_, err = secure.Load(ctx, "b")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_RejectsPlainModels(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	require.NoError(t, underlying.Save(ctx, secretModel("plain")))
	_, err := secure.Load(ctx, "plain")
	assert.ErrorIs(t, err, domain.ErrModelCorrupt)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}
