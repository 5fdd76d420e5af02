package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		fallback slog.Level
		want     slog.Level
	}{
		{"debug", slog.LevelInfo, slog.LevelDebug},
		{"INFO", slog.LevelWarn, slog.LevelInfo},
		{" warn ", slog.LevelInfo, slog.LevelWarn},
		{"warning", slog.LevelInfo, slog.LevelWarn},
		{"error", slog.LevelInfo, slog.LevelError},
		{"", slog.LevelWarn, slog.LevelWarn},
		{"verbose", slog.LevelInfo, slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.name, tt.fallback); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestNew_PlainOutputForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("Expense added", "group", "Trip")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at info level: %q", out)
	}
	if !strings.Contains(out, "Expense added") || !strings.Contains(out, "group=Trip") {
		t.Errorf("unexpected output: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no ANSI colors for a buffer, got %q", out)
	}
}
