package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("chatty"))
}

func TestNewWritesJSONToFile(t *testing.T) {
	t.Setenv(EnvLevel, "")
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closeLog, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)
	defer func() { _ = closeLog() }()

	logger.Debug("budget pushed")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"budget pushed"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}

func TestEnvLevelWins(t *testing.T) {
	t.Setenv(EnvLevel, "ERROR")
	path := filepath.Join(t.TempDir(), "app.log")

	logger, closeLog, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)
	defer func() { _ = closeLog() }()

	logger.Info("hidden")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
}

func TestCloseFlushesAndReleasesFile(t *testing.T) {
	t.Setenv(EnvLevel, "")
	path := filepath.Join(t.TempDir(), "app.log")

	logger, closeLog, err := New(Options{File: path})
	require.NoError(t, err)

	logger.Info("expense added")
	require.NoError(t, closeLog())
	assert.ErrorIs(t, closeLog(), os.ErrClosed, "file handle already released")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "expense added")
}

func TestCloseWithoutFile(t *testing.T) {
	t.Setenv(EnvLevel, "")

	logger, closeLog, err := New(Options{Stderr: true, File: filepath.Join(t.TempDir(), "unused.log")})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NoError(t, closeLog())
}
