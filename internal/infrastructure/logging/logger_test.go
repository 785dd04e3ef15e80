package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"affiliate-dashboard/internal/infrastructure/config"

	"github.com/rs/zerolog"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewWithWriter(config.LogConfig{Level: "debug", Format: "json"}, &buf), "gateway")
	logger.Info().Str("path", "/api/ping").Msg("request")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "gateway" || entry["message"] != "request" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LogConfig{Level: "warn", Format: "console"}, &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("") != zerolog.InfoLevel || parseLevel("bogus") != zerolog.InfoLevel {
		t.Error("expected info fallback")
	}
	if parseLevel("DEBUG") != zerolog.DebugLevel {
		t.Error("expected debug")
	}
}
