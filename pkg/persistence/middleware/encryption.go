package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/codec"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
	"github.com/aretw0/arbor/pkg/ports"
)

// envelopePrefix tags the sealed payload held by an envelope model.
const envelopePrefix = "arbor-aesgcm:v1:"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	ports.ModelStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals models with
// AES-GCM. The wrapped store only sees an envelope: a model with the same
// name, no inputs, and a single string constant holding the ciphertext of
// the wire encoding. The name is bound as additional data, so envelopes
// cannot be swapped between names.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.ModelStore) ports.ModelStore {
		return &encryptionMiddleware{
			ModelStore: next,
			config:     config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, mdl *model.Model) error {
	if err := mdl.Validate(); err != nil {
		return err
	}
	plainText, err := codec.MarshalModel(mdl)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey, []byte(mdl.Name))
	if err != nil {
		return fmt.Errorf("failed to encrypt model: %w", err)
	}

	sealed := envelopePrefix + base64.StdEncoding.EncodeToString(ciphertext)
	code, err := ast.BuildLeaf(ast.Constant, domain.String(sealed))
	if err != nil {
		return err
	}
	return m.ModelStore.Save(ctx, model.New(mdl.Name, domain.Signature{}, code))
}

func (m *encryptionMiddleware) Load(ctx context.Context, name string) (*model.Model, error) {
	envelope, err := m.ModelStore.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	sealed, ok := envelope.Code.Value().(domain.String)
	if envelope.Code.Kind() != ast.Constant || !ok || !strings.HasPrefix(string(sealed), envelopePrefix) {
		// Plain models are refused so a store cannot silently downgrade.
		return nil, fmt.Errorf("%w: %s is missing its encrypted envelope", domain.ErrModelCorrupt, name)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(string(sealed), envelopePrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode ciphertext base64: %w", domain.ErrModelCorrupt, err)
	}

	plainText, err := decryptWithRotation(ciphertext, []byte(name), m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt model: %w", err)
	}

	mdl, err := codec.UnmarshalModel(plainText)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrModelCorrupt, name, err)
	}
	return mdl, nil
}

// Helpers

func encrypt(plaintext, key, additional []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, additional), nil
}

func decryptWithRotation(ciphertext, additional, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, additional, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, additional, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext, additional, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], additional)
}
