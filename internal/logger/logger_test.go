package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONEncodingWritesStructuredEntries(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "info", Encoding: "json", Output: &buf})
	require.NoError(t, err)

	log.Info("seeded")
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "seeded", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_DefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "not-a-level", Encoding: "json", Output: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
