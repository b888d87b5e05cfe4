package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "INFO", LogLevelInfo.String())
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(99).String())
}

func TestSlogLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(LogLevelInfo, "json", &buf)

	logger.Info("client registered", "handle", "abc123")
	logger.Debug("should be filtered")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "client registered", entry["msg"])
	assert.Equal(t, "abc123", entry["handle"])
}

func TestSlogLogger_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(LogLevelWarn, "text", &buf)

	logger.Info("filtered")
	logger.Warn("node failed health check", "node", "http://localhost:14265")

	out := buf.String()
	assert.Contains(t, out, "node failed health check")
	assert.Contains(t, out, "node=http://localhost:14265")
	assert.NotContains(t, out, "filtered")
}

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapAdapter(zap.New(core))

	logger.Info("task completed", "task_id", "t-1")
	logger.Error("task failed", "failure", "client")

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "task completed", first.Message)
	assert.Equal(t, "t-1", first.ContextMap()["task_id"])
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}

func TestNoOpLogger(t *testing.T) {
	var logger Logger = NoOpLogger{}
	logger.Debug("d")
	logger.Info("i", "k", "v")
	logger.Warn("w")
	logger.Error("e")
}
