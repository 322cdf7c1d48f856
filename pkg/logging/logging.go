package logging

import (
	"log/slog"
	"os"
	"strings"
)

const (
	// KeyError is the key used for logging errors.
	KeyError = "err"

	// KeyDal is the key used for logging the data access layer in use.
	KeyDal = "dal"

	// KeyStore is the key used for logging the file store in use.
	KeyStore = "store"

	// KeyAppName is the key used for logging the application name.
	KeyAppName = "app"

	// EnvLogLevel is the environment variable for the log level.
	EnvLogLevel = `LOG_LEVEL`
)

// Name is the name of the application that is logging.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// name is the name of the application.
	name Name

	// level is the minimum level that will be logged.
	level slog.Level
}

// NewConfig creates a new logging configuration. The level is taken from the
// LOG_LEVEL environment variable and defaults to info.
func NewConfig(name Name) *Config {
	return &Config{
		name:  name,
		level: levelFromEnv(),
	}
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv(EnvLogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// CommonLogger creates the common logger for the application. It logs JSON to
// stdout and attaches the application name to every record.
func CommonLogger(c *Config) (*slog.Logger, error) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: c.level,
	})

	l := slog.New(h).With(slog.String(KeyAppName, string(c.name)))

	// Make the logger available to code that logs through the default logger.
	slog.SetDefault(l)

	return l, nil
}
