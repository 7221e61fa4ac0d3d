package users

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/ember/internal/client/database"
	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/dmitrijs2005/ember/internal/common"
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

func TestCreateAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	u := &models.User{ID: "id-1", Email: "  Alice@Example.com ", Salt: []byte{1, 2}, Verifier: []byte{3, 4}}
	require.NoError(t, r.Create(ctx, u))

	got, err := r.GetByEmail(ctx, "alice@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, []byte{1, 2}, got.Salt)
	assert.Equal(t, []byte{3, 4}, got.Verifier)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreate_Duplicate(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.User{ID: "1", Email: "a@b.c", Salt: []byte{1}, Verifier: []byte{1}}))
	err := r.Create(ctx, &models.User{ID: "2", Email: "A@B.C", Salt: []byte{1}, Verifier: []byte{1}})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestGetByEmail_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.GetByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a@b.c", "a@b.c"},
		{" A@B.C\n", "a@b.c"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEmail(tt.in))
	}
}
