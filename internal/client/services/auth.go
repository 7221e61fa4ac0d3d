package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/ember/internal/client/keystore"
	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/dmitrijs2005/ember/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/ember/internal/client/repositories/users"
	"github.com/dmitrijs2005/ember/internal/common"
	"github.com/dmitrijs2005/ember/internal/cryptox"
	"github.com/dmitrijs2005/ember/internal/dbx"
	"github.com/dmitrijs2005/ember/internal/logging"
	"github.com/dmitrijs2005/ember/internal/shared"
	"github.com/google/uuid"
)

// LastEmailKey is the metadata key remembering the most recent sign-in.
const LastEmailKey = "last_email"

const saltSize = 32

// ErrInvalidCredentials is returned by Register for an empty email or password.
var ErrInvalidCredentials = errors.New("email and password are required")

// AuthService is the local identity provider.
//
// Contract:
//   - Register: create an account and sign it in.
//   - Login: verify the password against the stored verifier and sign in.
//   - Logout: end the session; with purgeKey the user's encryption key is
//     deleted too, which makes every entry they saved unreadable.
//   - CurrentUserID: the signed-in user, if any.
type AuthService interface {
	IdentityProvider
	Register(ctx context.Context, email string, password []byte) (string, error)
	Login(ctx context.Context, email string, password []byte) (string, error)
	Logout(ctx context.Context, purgeKey bool) error
	LastEmail(ctx context.Context) string
}

// authService keeps accounts and session facts in the local SQLite database.
type authService struct {
	db            *sql.DB
	keys          keystore.KeyStore
	log           logging.Logger
	purgeOnLogout bool

	mu      sync.RWMutex
	current string
}

// NewAuthService constructs an AuthService over the local database. When
// purgeOnLogout is set every Logout behaves as Logout(ctx, true).
func NewAuthService(db *sql.DB, keys keystore.KeyStore, log logging.Logger, purgeOnLogout bool) AuthService {
	return &authService{db: db, keys: keys, log: log, purgeOnLogout: purgeOnLogout}
}

func (a *authService) CurrentUserID() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current, a.current != ""
}

func (a *authService) setCurrent(id string) {
	a.mu.Lock()
	a.current = id
	a.mu.Unlock()
}

// Register generates a random salt, derives a master key from the password
// and stores only the salt and the verifier. The account row and the
// remembered email are written in one transaction.
func (a *authService) Register(ctx context.Context, email string, password []byte) (string, error) {
	email = users.NormalizeEmail(email)
	if email == "" || len(password) == 0 {
		return "", ErrInvalidCredentials
	}

	salt := shared.GenerateRandByteArray(saltSize)
	masterKey := cryptox.DeriveMasterKey(password, salt)
	defer shared.WipeByteArray(masterKey)

	u := &models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Salt:     salt,
		Verifier: cryptox.MakeVerifier(masterKey),
	}

	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := users.NewSQLiteRepository(tx).Create(ctx, u); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Set(ctx, LastEmailKey, []byte(email))
	})
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}

	a.setCurrent(u.ID)
	a.log.Info(ctx, "user registered", "user_id", u.ID)
	return u.ID, nil
}

// Login derives a candidate key from (password, salt) and compares its
// verifier with the stored one in constant time. Unknown emails and wrong
// passwords both yield common.ErrorUnauthorized.
func (a *authService) Login(ctx context.Context, email string, password []byte) (string, error) {
	u, err := users.NewSQLiteRepository(a.db).GetByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		return "", common.ErrorUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	candidate := cryptox.DeriveMasterKey(password, u.Salt)
	defer shared.WipeByteArray(candidate)

	if subtle.ConstantTimeCompare(u.Verifier, cryptox.MakeVerifier(candidate)) == 0 {
		return "", common.ErrorUnauthorized
	}

	if err := metadata.NewSQLiteRepository(a.db).Set(ctx, LastEmailKey, []byte(u.Email)); err != nil {
		a.log.Warn(ctx, "failed to remember email", "error", err)
	}

	a.setCurrent(u.ID)
	a.log.Info(ctx, "user logged in", "user_id", u.ID)
	return u.ID, nil
}

// Logout is a no-op when nobody is signed in.
func (a *authService) Logout(ctx context.Context, purgeKey bool) error {
	id, ok := a.CurrentUserID()
	if !ok {
		return nil
	}

	if purgeKey || a.purgeOnLogout {
		if err := a.keys.Clear(ctx, id); err != nil {
			return fmt.Errorf("purge key: %w", err)
		}
		a.log.Warn(ctx, "encryption key purged", "user_id", id)
	}

	a.setCurrent("")
	a.log.Info(ctx, "user logged out", "user_id", id)
	return nil
}

// LastEmail returns the most recently signed-in email, or "".
func (a *authService) LastEmail(ctx context.Context) string {
	v, err := metadata.NewSQLiteRepository(a.db).Get(ctx, LastEmailKey)
	if err != nil {
		return ""
	}
	return string(v)
}
