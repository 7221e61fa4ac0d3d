package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Variables(t *testing.T) {
	isolate(t)
	t.Setenv("EMBER_DB_DRIVER", "postgres")
	t.Setenv("EMBER_DATABASE_DSN", "postgres://db/ember")
	t.Setenv("EMBER_REQUEST_TIMEOUT", "45s")
	t.Setenv("EMBER_PURGE_KEY_ON_LOGOUT", "true")

	cfg := defaults()
	require.NoError(t, parseEnv(cfg, dotEnvFile))

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://db/ember", cfg.DatabaseDSN)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.PurgeKeyOnLogout)
	assert.Equal(t, "ember.db", cfg.KeyStoreDSN, "unset variables keep defaults")
}

func TestParseEnv_APIKeyFallbacks(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"prefixed", map[string]string{"EMBER_GEMINI_API_KEY": "a", "GEMINI_API_KEY": "b", "API_KEY": "c"}, "a"},
		{"gemini", map[string]string{"GEMINI_API_KEY": "b", "API_KEY": "c"}, "b"},
		{"generic", map[string]string{"API_KEY": "c"}, "c"},
		{"none", map[string]string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := defaults()
			require.NoError(t, parseEnv(cfg, dotEnvFile))
			assert.Equal(t, tt.want, cfg.GeminiAPIKey)
		})
	}
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	isolate(t)
	t.Setenv("EMBER_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("EMBER_LOG_FORMAT=json\nEMBER_LOG_LEVEL=debug\n"), 0o600))

	cfg := defaults()
	require.NoError(t, parseEnv(cfg, path))

	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel, "real environment wins over .env")
}

func TestParseEnv_BadValue(t *testing.T) {
	isolate(t)
	t.Setenv("EMBER_REQUEST_TIMEOUT", "forever")

	require.Error(t, parseEnv(defaults(), dotEnvFile))
}
