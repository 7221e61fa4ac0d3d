package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/ember/internal/client/database"
	"github.com/dmitrijs2005/ember/internal/client/draft"
	"github.com/dmitrijs2005/ember/internal/flagx"
)

// Config holds runtime settings for the Ember CLI.
//
// Fields:
//   - DBDriver: "sqlite" or "postgres"; where journal entries live.
//   - DatabaseDSN: journal database. Empty with sqlite means KeyStoreDSN.
//   - KeyStoreDSN: client-local SQLite file holding key material and accounts.
//   - GeminiAPIKey, GeminiModel, GeminiBaseURL: draft generation endpoint.
//   - RequestTimeout: upper bound for one draft-generation call.
//   - PurgeKeyOnLogout: delete the user's key on every logout.
type Config struct {
	DBDriver         string        `split_words:"true"`
	DatabaseDSN      string        `split_words:"true"`
	KeyStoreDSN      string        `split_words:"true"`
	GeminiAPIKey     string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel      string        `split_words:"true"`
	GeminiBaseURL    string        `split_words:"true"`
	RequestTimeout   time.Duration `split_words:"true"`
	LogLevel         string        `split_words:"true"`
	LogFormat        string        `split_words:"true"`
	PurgeKeyOnLogout bool          `split_words:"true"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DBDriver = database.DriverSQLite
	c.DatabaseDSN = ""
	c.KeyStoreDSN = "ember.db"
	c.GeminiModel = draft.DefaultModel
	c.GeminiBaseURL = draft.DefaultBaseURL
	c.RequestTimeout = 2 * time.Minute
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.PurgeKeyOnLogout = false
}

// JournalDSN is the DSN the journal store should open.
func (c *Config) JournalDSN() string {
	if c.DatabaseDSN == "" && c.DBDriver == database.DriverSQLite {
		return c.KeyStoreDSN
	}
	return c.DatabaseDSN
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case database.DriverSQLite, database.DriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", c.DBDriver)
	}
	if c.DBDriver == database.DriverPostgres && c.DatabaseDSN == "" {
		return fmt.Errorf("db driver %q requires a database dsn", c.DBDriver)
	}
	if c.KeyStoreDSN == "" {
		return fmt.Errorf("keystore dsn is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and an optional .env file), a JSON file and command-line
// flags. Later sources take precedence over earlier ones. args are the
// program arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, dotEnvFile); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, flagx.ConfigFileFlag(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
