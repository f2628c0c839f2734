package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DWDWEATHER_CACHE_PATH", "")
	t.Setenv("DWDWEATHER_BASE_URL", "")
	t.Setenv("DWDWEATHER_HTTP_TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("DB_MAX_IDLE_CONNS", "")
	t.Setenv("DB_CONN_MAX_LIFETIME", "")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.CachePath == "" || filepath.Base(got.CachePath) != ".dwd-weather" {
		t.Errorf("CachePath = %q, want ~/.dwd-weather", got.CachePath)
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", got.LogFormat)
	}
	if got.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", got.BaseURL, DefaultBaseURL)
	}
	if got.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", got.HTTPTimeout)
	}
	if got.SQLiteMaxOpenConns != 1 || got.SQLiteMaxIdleConns != 1 {
		t.Errorf("conn limits = %d/%d, want 1/1", got.SQLiteMaxOpenConns, got.SQLiteMaxIdleConns)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DWDWEATHER_CACHE_PATH", "/var/cache/dwd")
	t.Setenv("DWDWEATHER_BASE_URL", "https://mirror.example.test/climate/")
	t.Setenv("DWDWEATHER_HTTP_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("DB_MAX_OPEN_CONNS", "4")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if got.CachePath != "/var/cache/dwd" {
		t.Errorf("CachePath = %q", got.CachePath)
	}
	// Trailing slash is stripped so URL joining stays predictable.
	if got.BaseURL != "https://mirror.example.test/climate" {
		t.Errorf("BaseURL = %q", got.BaseURL)
	}
	if got.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v", got.HTTPTimeout)
	}
	if got.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", got.LogLevel)
	}
	if got.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", got.LogFormat)
	}
	if got.SQLiteMaxOpenConns != 4 {
		t.Errorf("SQLiteMaxOpenConns = %d", got.SQLiteMaxOpenConns)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad log level", key: "LOG_LEVEL", value: "loud"},
		{name: "bad log format", key: "LOG_FORMAT", value: "xml"},
		{name: "bad timeout", key: "DWDWEATHER_HTTP_TIMEOUT", value: "fast"},
		{name: "bad conn count", key: "DB_MAX_OPEN_CONNS", value: "many"},
		{name: "bad lifetime", key: "DB_CONN_MAX_LIFETIME", value: "forever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil")
			}
		})
	}
}

func TestDatabaseFile(t *testing.T) {
	c := Config{CachePath: "/var/cache/dwd"}
	if got := c.DatabaseFile(); got != filepath.Join("/var/cache/dwd", "dwdweather.db") {
		t.Errorf("DatabaseFile() = %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "  WaRn \n", want: slog.LevelWarn},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if err != nil {
			t.Errorf("parseLogLevel(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := parseLogLevel("nope"); err == nil {
		t.Error("parseLogLevel(nope) error = nil, want non-nil")
	}
}
