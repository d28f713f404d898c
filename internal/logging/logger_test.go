package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gaddiyalibe/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newFileLogger(t *testing.T, format, level string) (*zap.Logger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "app.log")
	logger, err := logging.New(logging.Options{
		Format:           format,
		Level:            level,
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	require.NoError(t, err)
	return logger, logPath
}

func readLog(t *testing.T, logger *zap.Logger, path string) string {
	t.Helper()
	logger.Sync() //nolint:errcheck
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logger, path := newFileLogger(t, "console", "info")
	logger.Info("message without caller")

	content := readLog(t, logger, path)
	assert.Contains(t, content, "message without caller")
	assert.NotContains(t, content, ".go:")
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logger, path := newFileLogger(t, "console", "debug")
	logger.Info("message with caller")

	assert.Contains(t, readLog(t, logger, path), ".go:")
}

func TestJSONLoggerWritesFields(t *testing.T) {
	logger, path := newFileLogger(t, "json", "info")
	logger.Info("json message", zap.String("episodeId", "ep-1"))

	content := readLog(t, logger, path)
	assert.Contains(t, content, `"msg":"json message"`)
	assert.Contains(t, content, `"episodeId":"ep-1"`)
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	logger, path := newFileLogger(t, "console", "loud")
	logger.Debug("hidden")
	logger.Info("shown")

	content := readLog(t, logger, path)
	assert.NotContains(t, content, "hidden")
	assert.Contains(t, content, "shown")
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	assert.Error(t, err)
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := logging.WithRequestID(context.Background(), "req-xyz")
	ctx = logging.WithUserID(ctx, "u-1")

	core, observed := observer.New(zap.InfoLevel)
	logging.WithContext(ctx, zap.New(core)).Info("contextual log")

	records := observed.All()
	require.Len(t, records, 1)
	fields := records[0].ContextMap()
	assert.Equal(t, "req-xyz", fields["request_id"])
	assert.Equal(t, "u-1", fields["uid"])
}

func TestWithContextWithoutFields(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	assert.Same(t, logger, logging.WithContext(context.Background(), logger))
	logging.WithContext(context.Background(), logger).Info("plain")
	assert.Empty(t, observed.All()[0].Context)
}
