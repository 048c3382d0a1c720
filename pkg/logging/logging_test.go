package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	log.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "hello" || entry["key"] != "value" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelWarn, Format: FormatText, Output: &buf})

	log.Info("dropped")
	log.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info entry should have been filtered")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn entry missing from output")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		"warning": slog.LevelWarn,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNop_DiscardsOutput(t *testing.T) {
	t.Parallel()
	Nop().Error("nothing happens")
}
