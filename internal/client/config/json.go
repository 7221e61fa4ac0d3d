package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/ember/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "90s" or as integer nanoseconds. Absent keys leave the
// runtime Config untouched.
type JsonConfig struct {
	DBDriver         string          `json:"db_driver"`
	DatabaseDSN      string          `json:"database_dsn"`
	KeyStoreDSN      string          `json:"keystore_dsn"`
	GeminiAPIKey     string          `json:"gemini_api_key"`
	GeminiModel      string          `json:"gemini_model"`
	GeminiBaseURL    string          `json:"gemini_base_url"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	LogLevel         string          `json:"log_level"`
	LogFormat        string          `json:"log_format"`
	PurgeKeyOnLogout *bool           `json:"purge_key_on_logout"`
}

// parseJson overlays cfg with values from the JSON file at path. An empty
// path is a no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.DBDriver, jc.DBDriver)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.KeyStoreDSN, jc.KeyStoreDSN)
	setString(&cfg.GeminiAPIKey, jc.GeminiAPIKey)
	setString(&cfg.GeminiModel, jc.GeminiModel)
	setString(&cfg.GeminiBaseURL, jc.GeminiBaseURL)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PurgeKeyOnLogout != nil {
		cfg.PurgeKeyOnLogout = *jc.PurgeKeyOnLogout
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
