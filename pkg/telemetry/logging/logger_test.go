package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"testlab-hq/macrolink/pkg/config"
)

// TestNew_JSONFormat verifies JSON output and level filtering.
func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("should be filtered")
	logger.Info("translation complete", "direction", "to_xml")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("debug record passed an info-level logger")
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if record["msg"] != "translation complete" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["direction"] != "to_xml" {
		t.Errorf("direction = %v", record["direction"])
	}
}

// TestNew_TextFormat verifies the text handler is selected.
func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "debug", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("macro selected", "family", "RELAIS")

	out := buf.String()
	if !strings.Contains(out, "macro selected") || !strings.Contains(out, "family=RELAIS") {
		t.Errorf("unexpected text output: %s", out)
	}
}

// TestNew_InvalidConfig verifies bad level/format are rejected.
func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "loud", Format: "json"}, nil); err == nil {
		t.Error("New accepted an unknown level")
	}
	if _, err := New(config.LoggingConfig{Level: "info", Format: "xml"}, nil); err == nil {
		t.Error("New accepted an unknown format")
	}
}

// TestParseLevel maps strings to slog levels.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"WARNING", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
