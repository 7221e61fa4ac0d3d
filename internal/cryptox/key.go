package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/dmitrijs2005/ember/internal/shared"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

const (
	jwkKeyType   = "oct"
	jwkAlgorithm = "A256GCM"
)

// Key is a symmetric AES-256-GCM key ready for sealing and opening envelopes.
type Key struct {
	material []byte
	aead     cipher.AEAD
}

// jwk is the JSON Web Key form used to persist key material.
type jwk struct {
	Kty    string   `json:"kty"`
	K      string   `json:"k"`
	Alg    string   `json:"alg,omitempty"`
	Ext    bool     `json:"ext"`
	KeyOps []string `json:"key_ops,omitempty"`
}

// NewKey wraps raw key material. The slice is copied.
func NewKey(material []byte) (*Key, error) {
	if len(material) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvalidKeyMaterial, KeySize, len(material))
	}
	m := slices.Clone(material)

	block, err := aes.NewCipher(m)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, err
	}
	return &Key{material: m, aead: aead}, nil
}

// GenerateKey returns a fresh random 256-bit key.
func GenerateKey() (*Key, error) {
	m := make([]byte, KeySize)
	if _, err := io.ReadFull(randReader, m); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	defer shared.WipeByteArray(m)
	return NewKey(m)
}

// MarshalJWK serializes the key as an exportable JSON Web Key.
func (k *Key) MarshalJWK() ([]byte, error) {
	return json.Marshal(jwk{
		Kty:    jwkKeyType,
		K:      base64.RawURLEncoding.EncodeToString(k.material),
		Alg:    jwkAlgorithm,
		Ext:    true,
		KeyOps: []string{"encrypt", "decrypt"},
	})
}

// ParseJWK restores a key previously produced by MarshalJWK.
func ParseJWK(data []byte) (*Key, error) {
	var j jwk
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}
	if j.Kty != jwkKeyType {
		return nil, fmt.Errorf("%w: unsupported kty %q", ErrInvalidKeyMaterial, j.Kty)
	}
	if j.Alg != "" && j.Alg != jwkAlgorithm {
		return nil, fmt.Errorf("%w: unsupported alg %q", ErrInvalidKeyMaterial, j.Alg)
	}
	m, err := base64.RawURLEncoding.DecodeString(j.K)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}
	defer shared.WipeByteArray(m)
	return NewKey(m)
}

// Wipe zeroes the key material. The key must not be used afterwards.
func (k *Key) Wipe() {
	shared.WipeByteArray(k.material)
}
