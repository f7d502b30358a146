package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"commodity-forecast/internal/config"

	"github.com/rs/zerolog"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.InfoLevel, "json")
	log.Debug().Msg("hidden")
	log.Info().Str("market", "Mumbai").Msg("loaded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["market"] != "Mumbai" || entry["message"] != "loaded" || entry["level"] != "info" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNew(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Fatalf("expected invalid level error")
	}
	path := filepath.Join(t.TempDir(), "api.log")
	if _, err := New(config.LogConfig{Level: "debug", Format: "json", Output: path}); err != nil {
		t.Fatalf("New with file output: %v", err)
	}
}
