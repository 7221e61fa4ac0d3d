package cryptox

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
)

// MakeVerifier returns a SHA-256 digest of the derived key. It is stored
// instead of the password and compared on login.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey derives a 32-byte key from a password and salt with Argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}
