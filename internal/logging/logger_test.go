package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, false)
	log.Info("cache reset", "tables", 6)

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if out["msg"] != "cache reset" {
		t.Errorf("msg: %v", out["msg"])
	}
	if out["tables"] != float64(6) {
		t.Errorf("tables: %v", out["tables"])
	}
}

func TestNewInteractive(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, true)
	log.Info("cache reset")

	if !strings.Contains(buf.String(), "cache reset") {
		t.Errorf("message missing from output: %q", buf.String())
	}
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err == nil {
		t.Errorf("interactive output should not be JSON: %q", buf.String())
	}
}

func TestNewLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn, false)
	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info line not filtered at warn level: %q", buf.String())
	}
}
