package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("polygon closed", "id", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "polygon closed", rec["msg"])
	assert.EqualValues(t, 3, rec["id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("info", true))
	assert.Equal(t, slog.LevelWarn, parseLevel("Warning", false))
	assert.Equal(t, slog.LevelError, parseLevel("error", false))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus", false))
}
