package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "preparer", "warn")

	logger.Info("skipped")
	logger.Warn("kept", "quality", 30)

	out := buf.String()
	require.NotContains(t, out, "skipped")
	require.Contains(t, out, "msg=kept")
	require.Contains(t, out, "component=preparer")
	require.Contains(t, out, "quality=30")
}
