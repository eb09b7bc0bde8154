package debug

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("BasicLogging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "unit")

		logger.Info("rendered", "frames", 480)

		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "component=unit")
		assert.Contains(t, output, "msg=rendered")
		assert.Contains(t, output, "frames=480")
	})

	t.Run("LogLevels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "")
		logger.SetLevel(LogLevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warn message")
		assert.Contains(t, output, "error message")
		assert.False(t, logger.Enabled(LogLevelInfo))
		assert.True(t, logger.Enabled(LogLevelError))
	})

	t.Run("Off", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "")
		logger.SetLevel(LogLevelOff)

		logger.Error("should not appear")

		assert.Zero(t, buf.Len())
		assert.False(t, logger.Enabled(LogLevelError))
	})

	t.Run("SetOutput", func(t *testing.T) {
		var first, second bytes.Buffer
		logger := New(&first, "")
		logger.SetOutput(&second)
		logger.Info("moved")

		assert.Zero(t, first.Len())
		assert.Contains(t, second.String(), "moved")
	})

	t.Run("ConditionalLogging", func(t *testing.T) {
		var buf bytes.Buffer
		SetOutput(&buf)
		SetLevel(LogLevelDebug)
		defer SetLevel(LogLevelInfo)

		WarnIf(true, "should appear")
		WarnIf(false, "should not appear")

		output := buf.String()
		assert.Contains(t, output, "should appear")
		assert.NotContains(t, output, "should not appear")
	})
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "squine.log")
	logger, closer, err := NewFileLogger(path, "file")
	require.NoError(t, err)
	logger.Info("to disk")
	require.NoError(t, closer.Close())
}

func TestResolveLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"info", LogLevelInfo},
		{"WARN", LogLevelWarn},
		{"error", LogLevelError},
		{"off", LogLevelOff},
	}

	for _, tt := range tests {
		level, err := ResolveLogLevel(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, level)
	}

	_, err := ResolveLogLevel("verbose")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid log level"))
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevelOff, "OFF"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
		}
	}
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(New(&buf, "cli"))
	SetDefault(nil)

	Info("swapped")
	assert.Contains(t, buf.String(), "component=cli")
	assert.Contains(t, buf.String(), "msg=swapped")
}

func BenchmarkLogger(b *testing.B) {
	logger := New(bytes.NewBuffer(nil), "bench")

	b.Run("Enabled", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			logger.Info("benchmark message", "i", i)
		}
	})

	b.Run("BelowLevel", func(b *testing.B) {
		logger.SetLevel(LogLevelError)
		for i := 0; i < b.N; i++ {
			logger.Info("benchmark message", "i", i)
		}
	})
}
