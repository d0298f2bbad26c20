package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSetupWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter("warn", false, &buf)

	logger.Info().Msg("dropped")
	logger.Warn().Str("clip", "21").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var event map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if event["message"] != "kept" || event["clip"] != "21" || event["level"] != "warn" {
		t.Errorf("event = %v, want warn/kept/clip=21", event)
	}
}

func TestSetupWithWriterUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter("loud", false, &buf)

	logger.Debug().Msg("dropped")
	logger.Info().Msg("kept")

	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("unknown level should fall back to info, got %q", buf.String())
	}
}

func TestSetupWithWriterConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter("info", true, &buf)
	logger.Info().Msg("Playing animation: 21")

	out := buf.String()
	if strings.HasPrefix(out, "{") || !strings.Contains(out, "Playing animation: 21") {
		t.Errorf("console output = %q, want human-readable line", out)
	}
}
