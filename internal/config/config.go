package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the DWD CDC open-data endpoint for German climate
// observations.
const DefaultBaseURL = "https://opendata.dwd.de/climate_environment/CDC/observations_germany/climate"

type Config struct {
	// CachePath is the directory holding the cache database.
	CachePath string
	LogLevel  slog.Level
	// LogFormat selects the log handler: "text" (colorized, for
	// terminals) or "json" (for piping).
	LogFormat string

	BaseURL     string
	HTTPTimeout time.Duration

	SQLiteMaxOpenConns    int
	SQLiteMaxIdleConns    int
	SQLiteConnMaxLifetime time.Duration
}

// LoadFromEnv reads configuration from the environment, applying defaults
// for anything unset. The cache directory defaults to ~/.dwd-weather.
func LoadFromEnv() (Config, error) {
	cachePath := strings.TrimSpace(os.Getenv("DWDWEATHER_CACHE_PATH"))
	if cachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		cachePath = filepath.Join(home, ".dwd-weather")
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	logFormat, err := parseLogFormat(os.Getenv("LOG_FORMAT"))
	if err != nil {
		return Config{}, err
	}

	baseURL := strings.TrimSpace(os.Getenv("DWDWEATHER_BASE_URL"))
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeoutStr := strings.TrimSpace(os.Getenv("DWDWEATHER_HTTP_TIMEOUT"))
	if timeoutStr == "" {
		timeoutStr = "30s"
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DWDWEATHER_HTTP_TIMEOUT %q: %w", timeoutStr, err)
	}

	maxOpen, err := envInt("DB_MAX_OPEN_CONNS", 1)
	if err != nil {
		return Config{}, err
	}
	maxIdle, err := envInt("DB_MAX_IDLE_CONNS", 1)
	if err != nil {
		return Config{}, err
	}

	lifetimeStr := strings.TrimSpace(os.Getenv("DB_CONN_MAX_LIFETIME"))
	if lifetimeStr == "" {
		lifetimeStr = "0s"
	}
	lifetime, err := time.ParseDuration(lifetimeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", lifetimeStr, err)
	}

	return Config{
		CachePath:             cachePath,
		LogLevel:              level,
		LogFormat:             logFormat,
		BaseURL:               baseURL,
		HTTPTimeout:           timeout,
		SQLiteMaxOpenConns:    maxOpen,
		SQLiteMaxIdleConns:    maxIdle,
		SQLiteConnMaxLifetime: lifetime,
	}, nil
}

// DatabaseFile is the cache database location inside the cache directory.
func (c Config) DatabaseFile() string {
	return filepath.Join(c.CachePath, "dwdweather.db")
}

func envInt(key string, fallback int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func parseLogFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return "text", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("invalid LOG_FORMAT %q (allowed: text, json)", s)
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
