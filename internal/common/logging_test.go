package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("warn", &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("key", "value").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line leaked through warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("warn line missing or unstructured: %s", out)
	}
}

func TestSilentLoggerDiscards(t *testing.T) {
	logger := NewSilentLogger()
	logger.Error().Msg("nothing anywhere")
}
