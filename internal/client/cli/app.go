package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/ember/internal/client/codec"
	"github.com/dmitrijs2005/ember/internal/client/config"
	"github.com/dmitrijs2005/ember/internal/client/crypto"
	"github.com/dmitrijs2005/ember/internal/client/database"
	"github.com/dmitrijs2005/ember/internal/client/draft"
	"github.com/dmitrijs2005/ember/internal/client/keystore"
	"github.com/dmitrijs2005/ember/internal/client/repositories/journal"
	"github.com/dmitrijs2005/ember/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/ember/internal/client/services"
	"github.com/dmitrijs2005/ember/internal/filex"
	"github.com/dmitrijs2005/ember/internal/logging"
)

type App struct {
	config     *config.Config
	log        logging.Logger
	auth       services.AuthService
	journal    services.JournalService
	processing services.ProcessingService

	email  string
	reader *bufio.Reader
	out    io.Writer

	closers []io.Closer
}

// NewApp opens the databases named in c and wires the services over them.
// The caller must Close the returned App.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if isPlainPath(c.KeyStoreDSN) {
		if err := filex.EnsureParentDir(c.KeyStoreDSN); err != nil {
			return nil, err
		}
	}
	localDB, err := database.OpenSQLite(ctx, c.KeyStoreDSN)
	if err != nil {
		return nil, fmt.Errorf("open keystore database: %w", err)
	}
	app := &App{config: c, log: log, closers: []io.Closer{localDB}}

	journalDB := localDB
	switch {
	case c.DBDriver == database.DriverPostgres:
		journalDB, err = database.OpenPostgres(ctx, c.DatabaseDSN)
	case c.JournalDSN() != c.KeyStoreDSN:
		journalDB, err = database.OpenSQLite(ctx, c.JournalDSN())
	}
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("open journal database: %w", err)
	}
	if journalDB != localDB {
		app.closers = append(app.closers, journalDB)
	}

	var repo journal.Repository
	if c.DBDriver == database.DriverPostgres {
		repo = journal.NewPostgresRepository(journalDB)
	} else {
		repo = journal.NewSQLiteRepository(journalDB)
	}

	keys := keystore.New(metadata.NewSQLiteRepository(localDB), log.With("component", "keystore"))
	auth := services.NewAuthService(localDB, keys, log.With("component", "auth"), c.PurgeKeyOnLogout)
	cdc := codec.New(crypto.NewFieldCipher(keys), log.With("component", "codec"))
	js := services.NewJournalService(auth, cdc, repo, log.With("component", "journal"))
	gen := draft.NewGeminiGenerator(c.GeminiBaseURL, c.GeminiAPIKey, c.GeminiModel, c.RequestTimeout)

	app.wire(auth, js, services.NewProcessingService(gen, js), os.Stdin, os.Stdout)
	log.Debug(ctx, "app initialized", "db_driver", c.DBDriver)
	return app, nil
}

func (a *App) wire(auth services.AuthService, js services.JournalService, ps services.ProcessingService, in io.Reader, out io.Writer) {
	a.auth = auth
	a.journal = js
	a.processing = ps
	a.reader = bufio.NewReader(in)
	a.out = out
}

// Close releases the databases.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Ember (type 'help' for commands)")
	if email := a.auth.LastEmail(ctx); email != "" {
		fmt.Fprintln(a.out, hint("Last signed in as "+email+"; type 'login' to continue"))
	}
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.auth.CurrentUserID()
	return ok
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	return "(" + a.email + ")"
}

func isPlainPath(dsn string) bool {
	return dsn != ":memory:" && !strings.HasPrefix(dsn, "file:")
}

var _ execIface = (*App)(nil)
