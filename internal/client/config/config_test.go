package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/ember/internal/client/draft"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears every variable the loader reads and points the .env
// lookup at an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EMBER_DB_DRIVER", "EMBER_DATABASE_DSN", "EMBER_KEY_STORE_DSN",
		"EMBER_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY",
		"EMBER_GEMINI_MODEL", "EMBER_GEMINI_BASE_URL", "EMBER_REQUEST_TIMEOUT",
		"EMBER_LOG_LEVEL", "EMBER_LOG_FORMAT", "EMBER_PURGE_KEY_ON_LOGOUT",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	orig := dotEnvFile
	dotEnvFile = filepath.Join(t.TempDir(), ".env")
	t.Cleanup(func() { dotEnvFile = orig })
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "ember.db", c.KeyStoreDSN)
	assert.Equal(t, draft.DefaultModel, c.GeminiModel)
	assert.Equal(t, 2*time.Minute, c.RequestTimeout)
	assert.False(t, c.PurgeKeyOnLogout)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoadConfig_Precedence(t *testing.T) {
	isolate(t)
	t.Setenv("EMBER_LOG_LEVEL", "debug")
	t.Setenv("EMBER_GEMINI_MODEL", "env-model")
	t.Setenv("EMBER_KEY_STORE_DSN", "env.db")

	path := writeTempJSON(t, "", "", map[string]any{
		"gemini_model":    "json-model",
		"request_timeout": "90s",
	})

	cfg, err := LoadConfig([]string{"-c", path, "-m", "flag-model", "list"})
	require.NoError(t, err)

	want := defaults()
	want.LogLevel = "debug"
	want.KeyStoreDSN = "env.db"
	want.GeminiModel = "flag-model"
	want.RequestTimeout = 90 * time.Second
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_InvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown driver", []string{"-d", "mysql"}},
		{"postgres without dsn", []string{"-d", "postgres"}},
		{"bad duration flag", []string{"-t", "soon"}},
		{"missing json", []string{"-config", "/definitely/not/here.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := LoadConfig(tt.args)
			require.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	c := defaults()
	c.KeyStoreDSN = ""
	require.ErrorContains(t, c.Validate(), "keystore dsn")

	c = defaults()
	c.RequestTimeout = 0
	require.ErrorContains(t, c.Validate(), "request timeout")

	c = defaults()
	c.DBDriver = "postgres"
	c.DatabaseDSN = "postgres://localhost/ember"
	require.NoError(t, c.Validate())
}

func TestJournalDSN(t *testing.T) {
	c := defaults()
	assert.Equal(t, "ember.db", c.JournalDSN())

	c.DatabaseDSN = "journal.db"
	assert.Equal(t, "journal.db", c.JournalDSN())

	c.DBDriver = "postgres"
	c.DatabaseDSN = "postgres://x"
	assert.Equal(t, "postgres://x", c.JournalDSN())
}
