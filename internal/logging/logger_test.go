package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"trace", logrus.TraceLevel},
		{"DEBUG", logrus.DebugLevel},
		{" warn ", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"fatal", logrus.FatalLevel},
		{"info", logrus.InfoLevel},
		{"", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetLevel(tt.in), tt.in)
	}
}

func TestConfigure(t *testing.T) {
	t.Run("Success: JSON logs go to a rotated file", func(t *testing.T) {
		logger := logrus.New()
		base := filepath.Join(t.TempDir(), "api")

		configure(logger, LoggerSetupParams{
			LogFileName:   base,
			LogLevel:      "warn",
			LogFormatJSON: true,
		})

		logger.Info("dropped")
		logger.WithField("user_id", "u1").Warn("kept")

		data, err := os.ReadFile(base + ".log")
		require.NoError(t, err)
		assert.NotContains(t, string(data), "dropped")
		assert.Contains(t, string(data), `"msg":"kept"`)
		assert.Contains(t, string(data), `"user_id":"u1"`)
	})

	t.Run("Success: Without a file logs go to STDOUT", func(t *testing.T) {
		logger := logrus.New()

		configure(logger, LoggerSetupParams{LogLevel: "debug"})

		assert.Equal(t, os.Stdout, logger.Out)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
		assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
	})
}
