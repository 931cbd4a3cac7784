package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses debug and info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")

		output := buf.String()
		if strings.Contains(output, "debug message") {
			t.Error("expected debug message to be suppressed")
		}
		if strings.Contains(output, "info message") {
			t.Error("expected info message to be suppressed")
		}
		if !strings.Contains(output, "warn message") {
			t.Error("expected warn message to be logged")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("debug message")

		if !strings.Contains(buf.String(), "debug message") {
			t.Error("expected debug message to be logged")
		}
	})

	t.Run("log lines carry the app attribute", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Warn("tagged")

		if !strings.Contains(buf.String(), "app=electiontidy") {
			t.Errorf("expected app attribute, got %q", buf.String())
		}
	})
}
