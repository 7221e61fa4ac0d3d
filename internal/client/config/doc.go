// Package config loads runtime configuration for the Ember CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with EMBER_ (EMBER_DB_DRIVER,
//     EMBER_KEY_STORE_DSN, ...), after loading an optional .env file from
//     the working directory. GEMINI_API_KEY and API_KEY are accepted for the
//     API key.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so "90s" and integer nanoseconds both work:
//
//	{
//	  "db_driver": "postgres",
//	  "database_dsn": "postgres://ember@localhost/ember",
//	  "keystore_dsn": "/home/me/.ember/keys.db",
//	  "gemini_model": "gemini-2.5-flash",
//	  "request_timeout": "90s",
//	  "purge_key_on_logout": false
//	}
package config
