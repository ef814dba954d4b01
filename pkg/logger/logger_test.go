package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorfAddsErrorAttr(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)

	log.Errorf(errors.New("boom"), "sale %s failed", "42")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sale 42 failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)

	log.Debugf("hidden")
	assert.Zero(t, buf.Len())

	require.NoError(t, log.SetLevel("debug"))
	log.Debugf("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	log := New(&bytes.Buffer{}, slog.LevelInfo)
	assert.Error(t, log.SetLevel("loud"))
}
