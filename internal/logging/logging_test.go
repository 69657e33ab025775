package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomasz-mizak/chatguard/internal/config"
)

func loadConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(loadConfig(t, `LOG_LEVEL="warn"`), &buf)

	l.Info().Msg("dropped")
	l.Warn().Str("code", "invalid_access_key").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if rec["message"] != "kept" || rec["code"] != "invalid_access_key" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNewWriterBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(loadConfig(t, `LOG_LEVEL="chatty"`), &buf)

	l.Debug().Msg("hidden")
	l.Info().Msg("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug line should be filtered at info level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("info line missing")
	}
}

func TestNewWriterPretty(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(loadConfig(t, `LOG_PRETTY="true"`), &buf)
	l.Info().Msg("hello")

	if json.Valid(buf.Bytes()) {
		t.Error("pretty output should not be JSON")
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Error("message missing from console output")
	}
}
