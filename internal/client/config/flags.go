package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/ember/internal/flagx"
)

// knownFlags lists the flags parseFlags handles, in both dash styles.
var knownFlags = []string{
	"-d", "--d",
	"-dsn", "--dsn",
	"-k", "--k",
	"-m", "--m",
	"-l", "--l",
	"-t", "--t",
	"-purge-on-logout", "--purge-on-logout",
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string            journal database driver (sqlite|postgres)
//	-dsn string          journal database DSN
//	-k string            keystore SQLite file
//	-m string            Gemini model
//	-l string            log level (debug|info|warn|error)
//	-t duration          draft generation timeout, e.g. 90s
//	-purge-on-logout     delete the encryption key on every logout
//
// Arguments are filtered with flagx.FilterArgs so that -c/-config and
// anything else in args are ignored here.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("ember", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DBDriver, "d", cfg.DBDriver, "journal database driver (sqlite|postgres)")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "journal database DSN")
	fs.StringVar(&cfg.KeyStoreDSN, "k", cfg.KeyStoreDSN, "keystore SQLite file")
	fs.StringVar(&cfg.GeminiModel, "m", cfg.GeminiModel, "Gemini model")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "draft generation timeout")
	fs.BoolVar(&cfg.PurgeKeyOnLogout, "purge-on-logout", cfg.PurgeKeyOnLogout, "delete the encryption key on every logout")

	return fs.Parse(args)
}
