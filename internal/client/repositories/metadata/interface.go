// Package metadata is the durable client-side key-value store. The KeyStore
// keeps serialized key material here, and the auth service keeps small
// session facts (such as the last signed-in email).
package metadata

import "context"

// Repository is a string-keyed blob store. Get returns common.ErrorNotFound
// for an absent key; Delete of an absent key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetIfAbsent stores value only when key is unset and reports whether it did.
	SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
	Delete(ctx context.Context, key string) error
}
