package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable name, e.g.
// EMBER_DB_DRIVER.
const EnvPrefix = "EMBER"

// dotEnvFile is read if present; variables already set in the environment win.
var dotEnvFile = ".env"

// parseEnv overlays cfg with EMBER_* environment variables. Unset variables
// leave the current value untouched. The API key is also accepted as
// GEMINI_API_KEY or API_KEY.
func parseEnv(cfg *Config, envFile string) error {
	if envFile != "" && fileExists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("API_KEY")
	}
	return nil
}
