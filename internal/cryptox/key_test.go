package cryptox

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWK_RoundTrip(t *testing.T) {
	key := newTestKey(t)

	data, err := key.MarshalJWK()
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "oct", fields["kty"])
	assert.Equal(t, "A256GCM", fields["alg"])
	assert.Equal(t, true, fields["ext"])

	restored, err := ParseJWK(data)
	require.NoError(t, err)

	env, err := EncryptField(key, "carried across sessions")
	require.NoError(t, err)
	out, err := DecryptField(restored, env)
	require.NoError(t, err)
	assert.Equal(t, "carried across sessions", out)
}

func TestParseJWK_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"garbage", `{not json`},
		{"wrong kty", `{"kty":"RSA","k":"AAAA"}`},
		{"wrong alg", `{"kty":"oct","alg":"A128GCM","k":"AAAAAAAAAAAAAAAAAAAAAA"}`},
		{"short key", `{"kty":"oct","k":"AAAAAAAAAAAAAAAAAAAAAA"}`},
		{"bad encoding", `{"kty":"oct","k":"***"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJWK([]byte(tt.in))
			require.ErrorIs(t, err, ErrInvalidKeyMaterial)
		})
	}
}

func TestNewKey_CopiesMaterial(t *testing.T) {
	m := bytes.Repeat([]byte{7}, KeySize)
	key, err := NewKey(m)
	require.NoError(t, err)

	m[0] = 0
	assert.Equal(t, byte(7), key.material[0])
}

func TestGenerateKey_RandFailure(t *testing.T) {
	orig := randReader
	randReader = failingReader{}
	t.Cleanup(func() { randReader = orig })

	_, err := GenerateKey()
	require.Error(t, err)
}

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveMasterKey(password, salt)
	key2 := DeriveMasterKey(password, salt)

	assert.Len(t, key1, 32)
	assert.True(t, bytes.Equal(key1, key2), "same inputs must give the same key")
	assert.False(t, bytes.Equal(key1, DeriveMasterKey(password, []byte("other-salt"))))
}

func TestMakeVerifier(t *testing.T) {
	v := MakeVerifier([]byte("k"))
	assert.Len(t, v, 32)
	assert.Equal(t, v, MakeVerifier([]byte("k")))
}
