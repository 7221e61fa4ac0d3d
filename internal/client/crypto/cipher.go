// Package crypto binds the envelope primitives in cryptox to the per-user
// keys held by the KeyStore.
package crypto

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ember/internal/client/keystore"
	"github.com/dmitrijs2005/ember/internal/cryptox"
)

// FieldCipher encrypts and decrypts single text fields for a user.
type FieldCipher struct {
	keys keystore.KeyStore
}

func NewFieldCipher(keys keystore.KeyStore) *FieldCipher {
	return &FieldCipher{keys: keys}
}

// Encrypt returns base64(IV || AES-GCM(plaintext)) under the user's key.
func (c *FieldCipher) Encrypt(ctx context.Context, plaintext, userID string) (string, error) {
	key, err := c.keys.GetOrCreateKey(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get key: %w", err)
	}
	return cryptox.EncryptField(key, plaintext)
}

// Decrypt reverses Encrypt. Envelope problems come back as
// *cryptox.DecryptionError; key store failures are returned as-is.
func (c *FieldCipher) Decrypt(ctx context.Context, envelope, userID string) (string, error) {
	key, err := c.keys.GetOrCreateKey(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get key: %w", err)
	}
	return cryptox.DecryptField(key, envelope)
}
