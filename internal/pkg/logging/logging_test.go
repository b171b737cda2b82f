package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/ferdiebergado/tokenkit/internal/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			if got := logging.ParseLevel(tc.in); got != tc.want {
				t.Errorf("logging.ParseLevel(%q) = %v, want: %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	t.Run("Production logs JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.SetupLogger("production", "info", &buf)
		logger.Info("token issued", "sub", "user-42")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("log output is not JSON: %v", err)
		}
		if got, want := entry["sub"], "user-42"; got != want {
			t.Errorf("entry[%q] = %v, want: %v", "sub", got, want)
		}
	})

	t.Run("Level filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.SetupLogger("development", "warn", &buf)
		logger.Debug("hidden")
		logger.Warn("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("log output %q contains debug entry", out)
		}
		if !strings.Contains(out, "shown") {
			t.Errorf("log output %q is missing warn entry", out)
		}
	})
}
