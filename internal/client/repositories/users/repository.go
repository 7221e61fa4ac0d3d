// Package users stores the local accounts behind the AuthService.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/dmitrijs2005/ember/internal/common"
	"github.com/dmitrijs2005/ember/internal/dbx"
)

type Repository interface {
	// Create adds u; a taken email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, u *models.User) error
	// GetByEmail returns common.ErrorNotFound for an unknown email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *SQLiteRepository) Create(ctx context.Context, u *models.User) error {
	email := NormalizeEmail(u.Email)

	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email = ?`, email).Scan(&exists)
	if err == nil {
		return common.ErrorAlreadyExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check user: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, salt, verifier) VALUES (?, ?, ?, ?)`,
		u.ID, email, u.Salt, u.Verifier)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var (
		u       models.User
		created string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, salt, verifier, created_at FROM users WHERE email = ?`,
		NormalizeEmail(email)).Scan(&u.ID, &u.Email, &u.Salt, &u.Verifier, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &u, nil
}
