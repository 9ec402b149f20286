package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvServerURL      = "EMBAUCO_SERVER_URL"
	EnvDatabasePath   = "EMBAUCO_DB_PATH"
	EnvRequestTimeout = "EMBAUCO_REQUEST_TIMEOUT"
	EnvValidatePath   = "EMBAUCO_VALIDATE_PATH"
	EnvLogLevel       = "EMBAUCO_LOG_LEVEL"
	EnvEphemeral      = "EMBAUCO_EPHEMERAL"
)

// dotEnvFile is read before the environment is inspected. Variables already
// present in the process environment are not overwritten by it.
var dotEnvFile = ".env"

// parseEnv overlays Config with EMBAUCO_* environment variables.
// A missing .env file is fine; a malformed one panics, like the JSON loader.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := os.LookupEnv(EnvServerURL); ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := os.LookupEnv(EnvDatabasePath); ok && v != "" {
		cfg.DatabasePath = v
	}
	if v, ok := os.LookupEnv(EnvRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := os.LookupEnv(EnvValidatePath); ok && v != "" {
		cfg.ValidatePath = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvEphemeral); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.Ephemeral = b
	}
}
