// Package shared holds small helpers for random bytes and wiping secrets.
package shared

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandByteArray returns size bytes from crypto/rand. It panics if the
// system random source fails, which leaves no safe way to continue.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// MakeRandHexString returns size random bytes encoded as hex, so the result
// is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray zeroes b in place. Nil is a no-op.
func WipeByteArray(b []byte) {
	clear(b)
}
