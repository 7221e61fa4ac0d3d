package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// IVSize is the length of the random GCM nonce that prefixes every envelope.
const IVSize = 12

// randReader is a test seam for the IV and key source.
var randReader io.Reader = rand.Reader

// EncryptField seals plaintext under key and returns the envelope:
// base64(IV || ciphertext || tag). A fresh IV is drawn on every call.
func EncryptField(key *Key, plaintext string) (string, error) {
	buf := make([]byte, IVSize, IVSize+len(plaintext)+key.aead.Overhead())
	if _, err := io.ReadFull(randReader, buf); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}
	sealed := key.aead.Seal(buf, buf[:IVSize], []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptField opens an envelope produced by EncryptField. Every failure is
// a *DecryptionError.
func DecryptField(key *Key, envelope string) (string, error) {
	raw, err := decodeBase64(envelope)
	if err != nil {
		return "", &DecryptionError{Kind: KindInvalidEncoding, Err: err}
	}
	if len(raw) < IVSize {
		return "", &DecryptionError{Kind: KindTooShort}
	}

	plain, err := key.aead.Open(nil, raw[:IVSize], raw[IVSize:], nil)
	if err != nil {
		return "", &DecryptionError{Kind: KindAuthenticationFailed, Err: err}
	}
	return strings.ToValidUTF8(string(plain), "�"), nil
}

// decodeBase64 accepts what browsers accept in atob: ASCII whitespace is
// ignored and trailing padding is optional.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return -1
		}
		return r
	}, s)

	if len(s)%4 == 0 {
		s = strings.TrimSuffix(s, "=")
		s = strings.TrimSuffix(s, "=")
	}
	if len(s)%4 == 1 {
		return nil, fmt.Errorf("bad base64 length %d", len(s))
	}
	return base64.RawStdEncoding.DecodeString(s)
}
