package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for raw, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "analyze", "warn", FormatJSON)
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("isd estimated", "illuminant", "daylight")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "isd estimated", rec["msg"])
	assert.Equal(t, "analyze", rec["tool"])
	assert.Equal(t, "daylight", rec["illuminant"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "linlog", "debug", "")
	require.NoError(t, err)
	log.Debug("loaded", "width", 4)
	assert.Contains(t, buf.String(), "tool=linlog")
	assert.Contains(t, buf.String(), "width=4")

	_, err = New(&buf, "linlog", "info", "xml")
	assert.Error(t, err)
	_, err = New(&buf, "linlog", "loud", "text")
	assert.Error(t, err)
}
