package config

import "os"

// Env carries the process environment read once at startup: database
// credentials and the config file path / log level overrides, mirroring
// the distilled app's own env var set.
type Env struct {
	ConfigPath string
	LogLevel   string
	PGHost     string
	PGDatabase string
	PGUser     string
	PGPassword string
}

// LoadEnv reads the fixed set of environment variables this program
// consults. Values are returned verbatim; callers decide fallbacks.
func LoadEnv() Env {
	return Env{
		ConfigPath: os.Getenv("MB_CONFIG_PATH"),
		LogLevel:   os.Getenv("MB_LOG_LEVEL"),
		PGHost:     os.Getenv("PGHOST"),
		PGDatabase: os.Getenv("PGDATABASE"),
		PGUser:     os.Getenv("PGUSER"),
		PGPassword: os.Getenv("PGPASSWORD"),
	}
}
