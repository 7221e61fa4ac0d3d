// Package keystore manages the per-user journal encryption key.
//
// Each user has at most one AES-256-GCM key. It is created lazily on first
// use, persisted immediately as a JSON Web Key under
// "ember_encryption_key_<userID>" in the client-local metadata store, and
// removed only by Clear. Corrupt key material is replaced by a fresh key;
// anything sealed under the old key can no longer be opened.
package keystore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/ember/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/ember/internal/common"
	"github.com/dmitrijs2005/ember/internal/cryptox"
	"github.com/dmitrijs2005/ember/internal/logging"
	"golang.org/x/sync/singleflight"
)

// KeyPrefix scopes key material in the metadata store so users sharing a
// client do not collide.
const KeyPrefix = "ember_encryption_key_"

// ErrEmptyUserID is returned when a key is requested without an identity.
var ErrEmptyUserID = errors.New("keystore: empty user id")

// errCleared marks a load that overlapped a Clear for the same user.
var errCleared = errors.New("keystore: key cleared during load")

// KeyStore is the contract the field cipher depends on.
type KeyStore interface {
	GetOrCreateKey(ctx context.Context, userID string) (*cryptox.Key, error)
	Clear(ctx context.Context, userID string) error
}

// Store is the metadata-backed KeyStore. Concurrent first-use calls for the
// same user are collapsed into one load-or-generate, and the generated key
// is written with SetIfAbsent so a concurrent writer in another process wins
// cleanly instead of silently replacing it.
type Store struct {
	repo metadata.Repository
	log  logging.Logger

	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]*cryptox.Key
	// gen is bumped by Clear; a load that saw an older value is discarded.
	gen map[string]uint64
}

func New(repo metadata.Repository, log logging.Logger) *Store {
	return &Store{
		repo:  repo,
		log:   log,
		cache: make(map[string]*cryptox.Key),
		gen:   make(map[string]uint64),
	}
}

func storageKey(userID string) string {
	return KeyPrefix + userID
}

// GetOrCreateKey returns the user's key, creating and persisting one if the
// store has none. Only storage failures are returned as errors.
func (s *Store) GetOrCreateKey(ctx context.Context, userID string) (*cryptox.Key, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	for {
		s.mu.RLock()
		key, ok := s.cache[userID]
		s.mu.RUnlock()
		if ok {
			return key, nil
		}

		v, err, _ := s.group.Do(userID, func() (any, error) {
			s.mu.RLock()
			gen := s.gen[userID]
			s.mu.RUnlock()

			key, err := s.load(ctx, userID)
			if err != nil {
				return nil, err
			}

			s.mu.Lock()
			defer s.mu.Unlock()
			if s.gen[userID] != gen {
				key.Wipe()
				return nil, errCleared
			}
			s.cache[userID] = key
			return key, nil
		})
		if errors.Is(err, errCleared) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		return v.(*cryptox.Key), nil
	}
}

func (s *Store) load(ctx context.Context, userID string) (*cryptox.Key, error) {
	data, err := s.repo.Get(ctx, storageKey(userID))
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return s.create(ctx, userID)
	case err != nil:
		return nil, fmt.Errorf("load key: %w", err)
	}

	key, err := cryptox.ParseJWK(data)
	if err == nil {
		return key, nil
	}

	s.log.Warn(ctx, "stored key material is unreadable, generating a new key", "user_id", userID, "error", err)
	return s.replace(ctx, userID)
}

// create generates a key and stores it unless someone else got there first,
// in which case the stored key is used.
func (s *Store) create(ctx context.Context, userID string) (*cryptox.Key, error) {
	key, data, err := generate()
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.SetIfAbsent(ctx, storageKey(userID), data)
	if err != nil {
		return nil, fmt.Errorf("store key: %w", err)
	}
	if stored {
		s.log.Info(ctx, "generated encryption key", "user_id", userID)
		return key, nil
	}

	key.Wipe()
	winner, err := s.repo.Get(ctx, storageKey(userID))
	if err != nil {
		return nil, fmt.Errorf("load key: %w", err)
	}
	key, err = cryptox.ParseJWK(winner)
	if err != nil {
		s.log.Warn(ctx, "concurrently stored key material is unreadable, generating a new key", "user_id", userID, "error", err)
		return s.replace(ctx, userID)
	}
	return key, nil
}

// replace overwrites whatever is stored with a fresh key.
func (s *Store) replace(ctx context.Context, userID string) (*cryptox.Key, error) {
	key, data, err := generate()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Set(ctx, storageKey(userID), data); err != nil {
		return nil, fmt.Errorf("store key: %w", err)
	}
	return key, nil
}

func generate() (*cryptox.Key, []byte, error) {
	key, err := cryptox.GenerateKey()
	if err != nil {
		return nil, nil, err
	}
	data, err := key.MarshalJWK()
	if err != nil {
		return nil, nil, fmt.Errorf("export key: %w", err)
	}
	return key, data, nil
}

// Clear deletes the user's key. Clearing an absent key is not an error.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	s.invalidate(userID, true)
	err := s.repo.Delete(ctx, storageKey(userID))
	// a load may have read the old material while the delete was running
	s.invalidate(userID, false)
	if err != nil {
		return fmt.Errorf("clear key: %w", err)
	}
	s.log.Info(ctx, "encryption key cleared", "user_id", userID)
	return nil
}

// invalidate drops the cached key and bumps the user's generation so that
// in-flight loads are discarded instead of cached.
func (s *Store) invalidate(userID string, wipe bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[userID]++
	if key, ok := s.cache[userID]; ok {
		if wipe {
			key.Wipe()
		}
		delete(s.cache, userID)
	}
	s.group.Forget(userID)
}
