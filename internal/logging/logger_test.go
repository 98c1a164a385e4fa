package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Component: "slotbot", Level: "INFO", Output: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("reserved", zap.String("slot", "🇫🇷 France"))
	require.NoError(t, logger.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "INFO", entry["severity"])
	require.Equal(t, "reserved", entry["message"])
	require.Equal(t, "slotbot", entry["component"])
	require.Equal(t, "🇫🇷 France", entry["slot"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
}
