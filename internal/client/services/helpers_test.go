package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/ember/internal/client/codec"
	"github.com/dmitrijs2005/ember/internal/client/crypto"
	"github.com/dmitrijs2005/ember/internal/client/database"
	"github.com/dmitrijs2005/ember/internal/client/keystore"
	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/dmitrijs2005/ember/internal/client/repositories/journal"
	"github.com/dmitrijs2005/ember/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/ember/internal/logging"
	"github.com/stretchr/testify/require"
)

// stack is a fully wired client over one in-memory SQLite database.
type stack struct {
	db    *sql.DB
	keys  *keystore.Store
	codec *codec.Codec
	repo  *journal.SQLiteRepository
}

func setupStack(t *testing.T) *stack {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	keys := keystore.New(metadata.NewSQLiteRepository(db), logging.Nop())
	return &stack{
		db:    db,
		keys:  keys,
		codec: codec.New(crypto.NewFieldCipher(keys), logging.Nop()),
		repo:  journal.NewSQLiteRepository(db),
	}
}

func (s *stack) journal(identity IdentityProvider) JournalService {
	return NewJournalService(identity, s.codec, s.repo, logging.Nop())
}

// fakeRepo is a journal.Repository with scripted failures.
type fakeRepo struct {
	insertErr error
	listErr   error
	getErr    error

	inserted []*models.Record
}

func (f *fakeRepo) Insert(_ context.Context, rec *models.Record) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeRepo) ListByOwner(context.Context, string) ([]models.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Record, 0, len(f.inserted))
	for _, r := range f.inserted {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(context.Context, string, string) (*models.Record, error) {
	return nil, f.getErr
}

// failingCodec fails every ToPersisted call.
type failingCodec struct {
	EntryCodec
	err error
}

func (f failingCodec) ToPersisted(context.Context, *models.JournalEntry, string) (*models.Record, error) {
	return nil, f.err
}

var errBoom = errors.New("boom")
