package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomsound/oggdecode/internal/config"
)

func TestNewLoggerWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	log.Info("decode started", "handle", "abc123")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "decode started", entry["msg"])
	assert.Equal(t, "abc123", entry["handle"])
}

func TestNewLoggerWithWriterText(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "text"}, &buf)
	log.Info("decode started")
	assert.Contains(t, buf.String(), "decode started")
}

func TestNewLoggerRedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	log.Info("opened source", "token", "super-secret")

	assert.NotContains(t, buf.String(), "super-secret")
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)
	log.Info("should be filtered out")
	log.Warn("should appear")

	assert.False(t, strings.Contains(buf.String(), "should be filtered out"))
	assert.True(t, strings.Contains(buf.String(), "should appear"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warn").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("unknown").String())
}
