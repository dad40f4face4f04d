package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogrus(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetFormatter(&logrus.TextFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	})
}

func TestGetLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"DEBUG":   logrus.DebugLevel,
		"error":   logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
		"info":    logrus.InfoLevel,
		"trace":   logrus.TraceLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		" info ":  logrus.InfoLevel,
		"":        logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, GetLevel(in), "level %q", in)
	}
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("debug"))
	assert.True(t, ValidLevel("Warn"))
	assert.False(t, ValidLevel(""))
	assert.False(t, ValidLevel("loud"))
}

func TestSetupWritesToFile(t *testing.T) {
	resetLogrus(t)
	base := filepath.Join(t.TempDir(), "logs", "fitr")

	closer, err := Setup(LoggerSetupParams{LogFileName: base, LogLevel: "debug"})
	require.NoError(t, err)

	logrus.WithField("component", "test").Debug("hello from setup")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(base + ".log")
	require.NoError(t, err, ".log suffix should be appended")
	assert.Contains(t, string(data), "hello from setup")
	assert.Contains(t, string(data), "component=test")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestSetupJSONFormat(t *testing.T) {
	resetLogrus(t)
	path := filepath.Join(t.TempDir(), "fitr.log")

	closer, err := Setup(LoggerSetupParams{LogFileName: path, LogLevel: "info", LogFormatJSON: true})
	require.NoError(t, err)

	logrus.Info("json line")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"json line"`)
}

func TestSetupLevelFiltersMessages(t *testing.T) {
	resetLogrus(t)
	path := filepath.Join(t.TempDir(), "fitr.log")

	closer, err := Setup(LoggerSetupParams{LogFileName: path, LogLevel: "warn"})
	require.NoError(t, err)

	logrus.Info("quiet")
	logrus.Warn("loud")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

func TestSetupStderrAndDiscard(t *testing.T) {
	resetLogrus(t)

	closer, err := Setup(LoggerSetupParams{LogFileName: StderrFileName})
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, logrus.StandardLogger().Out)
	assert.NoError(t, closer.Close())

	closer, err = Setup(LoggerSetupParams{})
	require.NoError(t, err)
	assert.NotEqual(t, os.Stderr, logrus.StandardLogger().Out)
	assert.NoError(t, closer.Close())
}
