package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipreport/internal/config"
)

func decodeEntry(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry), "log line is not JSON: %s", data)
	return entry
}

func TestInitializeLogger_FileOutput(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	path := filepath.Join(t.TempDir(), "logs", "run.log")
	logger, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: path})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.FileExists(t, path)

	logger.Info("records loaded", slog.Int("count", 3))
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	entry := decodeEntry(t, content)
	assert.Equal(t, "records loaded", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, 3, entry["count"])
}

func TestInitializeLogger_FileWithoutPath(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	_, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file"})
	assert.Error(t, err)
}

func TestInitializeLogger_FirstCallWins(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	dir := t.TempDir()
	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: filepath.Join(dir, "a.log")})
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "file", FilePath: filepath.Join(dir, "b.log")})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, GetLogger())
	assert.NoFileExists(t, filepath.Join(dir, "b.log"))
}

func TestCloseLogFile_NoFile(t *testing.T) {
	ResetLoggerForTesting()
	assert.NoError(t, CloseLogFile())
}

func TestTraceHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug")

	logger.InfoContext(WithTraceID(context.Background(), "run-123"), "with trace")
	assert.Equal(t, "run-123", decodeEntry(t, buf.Bytes())["trace_id"])

	buf.Reset()
	logger.Info("without trace")
	assert.NotContains(t, decodeEntry(t, buf.Bytes()), "trace_id")

	buf.Reset()
	logger.With(slog.String("stage", "load")).WithGroup("g").
		InfoContext(WithTraceID(context.Background(), "run-456"), "grouped", slog.Int("n", 1))
	entry := decodeEntry(t, buf.Bytes())
	assert.Equal(t, "load", entry["stage"])
	assert.NotNil(t, entry["g"])
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), "level %q", in)
	}
}

func TestNewLogger_Filtering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Equal(t, "WARN", decodeEntry(t, buf.Bytes())["level"])
}

func TestTraceIDHelpers(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	ctx := ContextWithTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)

	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)))
	assert.NotEmpty(t, GetTraceID(EnsureTraceID(context.Background())))
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}

func TestLoggerAttrHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	WithComponent(logger, "loader").Info("component")
	assert.Equal(t, "loader", decodeEntry(t, buf.Bytes())["component"])

	buf.Reset()
	WithError(logger, os.ErrNotExist).Info("failed")
	assert.Equal(t, os.ErrNotExist.Error(), decodeEntry(t, buf.Bytes())["error"])

	assert.Same(t, logger, WithError(logger, nil))
}
