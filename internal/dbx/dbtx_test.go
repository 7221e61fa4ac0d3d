package dbx_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/ember/internal/client/database"
	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/dmitrijs2005/ember/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/ember/internal/client/repositories/users"
	"github.com/dmitrijs2005/ember/internal/common"
	"github.com/dmitrijs2005/ember/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// register writes an account and the last-used email in one transaction.
func register(ctx context.Context, db *sql.DB, u *models.User, after func() error) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := users.NewSQLiteRepository(tx).Create(ctx, u); err != nil {
			return err
		}
		if err := metadata.NewSQLiteRepository(tx).Set(ctx, "last_email", []byte(u.Email)); err != nil {
			return err
		}
		return after()
	})
}

func user(id, email string) *models.User {
	return &models.User{ID: id, Email: email, Salt: []byte("salt"), Verifier: []byte("verifier")}
}

// assertNothingWritten checks that neither the account nor the email landed.
func assertNothingWritten(t *testing.T, db *sql.DB, email string) {
	t.Helper()
	ctx := context.Background()

	_, err := users.NewSQLiteRepository(db).GetByEmail(ctx, email)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = metadata.NewSQLiteRepository(db).Get(ctx, "last_email")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestWithTx_CommitsAccountAndLastEmail(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	require.NoError(t, register(ctx, db, user("u1", "me@example.com"), func() error { return nil }))

	got, err := users.NewSQLiteRepository(db).GetByEmail(ctx, "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	last, err := metadata.NewSQLiteRepository(db).Get(ctx, "last_email")
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", string(last))
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)
	boom := errors.New("boom")

	err := register(context.Background(), db, user("u1", "me@example.com"), func() error { return boom })
	require.ErrorIs(t, err, boom)

	assertNothingWritten(t, db, "me@example.com")
}

func TestWithTx_DuplicateEmailKeepsFirstAccount(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	noop := func() error { return nil }

	require.NoError(t, register(ctx, db, user("u1", "me@example.com"), noop))
	err := register(ctx, db, user("u2", "ME@example.com"), noop)
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := users.NewSQLiteRepository(db).GetByEmail(ctx, "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		assertNothingWritten(t, db, "me@example.com")
	}()

	_ = register(context.Background(), db, user("u1", "me@example.com"), func() error { panic("kaput") })
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	called := false
	err := dbx.WithTx(context.Background(), db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
	assert.False(t, called)
}
