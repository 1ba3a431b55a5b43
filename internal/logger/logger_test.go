//go:build unit

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"marketing-site/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	New(config.LogConfig{Level: "info", Format: "console"}, &buf).Info("fetched page tree")

	assert.Contains(t, buf.String(), "fetched page tree")
	assert.NotContains(t, buf.String(), "{")
}

func TestNew_JSONError(t *testing.T) {
	var buf bytes.Buffer
	New(config.LogConfig{Level: "error", Format: "json"}, &buf).Error(errors.New("rate limited"), "children request failed")

	entry := decode(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "children request failed", entry["message"])
	assert.Equal(t, "rate limited", entry["error"])
}

func TestNew_LevelFiltering(t *testing.T) {
	testCases := []struct {
		level   string
		wantLog bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", false},
		{"", true}, // defaults to info
		{"verbose", true},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			New(config.LogConfig{Level: tc.level, Format: "json"}, &buf).Info("post list served")
			assert.Equal(t, tc.wantLog, buf.Len() > 0)
		})
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	log.With(map[string]interface{}{"block_id": "abc", "failures": 2}).Warn("partial tree")

	entry := decode(t, &buf)
	assert.Equal(t, "abc", entry["block_id"])
	assert.Equal(t, float64(2), entry["failures"])
	assert.Equal(t, "warn", entry["level"])
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("discarded")
	log.With(map[string]interface{}{"k": "v"}).Error(errors.New("x"), "discarded")
}
