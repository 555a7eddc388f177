// Package config loads the client configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the SDK needs to reach the remote API and the
// on-device cache.
type Config struct {
	// BaseURL is the root of the remote API.
	BaseURL string

	// DBPath is the on-device SQLite cache file.
	DBPath string

	// RequestsPerSecond caps outbound calls client-side. Zero disables
	// the limiter.
	RequestsPerSecond float64

	// LogLevel is the slog level for the tint handler.
	LogLevel slog.Level
}

// New loads configuration from the environment, reading a .env file when
// present. Every field has a default.
func New() (*Config, error) {
	_ = godotenv.Load()

	baseURL := os.Getenv("OUTLY_API_URL")
	if baseURL == "" {
		baseURL = "https://api.outly.app/v1"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	dbPath := os.Getenv("OUTLY_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/outly.db"
	}

	rps := 10.0
	if raw := os.Getenv("OUTLY_RATE_LIMIT"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OUTLY_RATE_LIMIT: %w", err)
		}
		rps = parsed
	}

	return &Config{
		BaseURL:           baseURL,
		DBPath:            dbPath,
		RequestsPerSecond: rps,
		LogLevel:          levelFromEnv(),
	}, nil
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
