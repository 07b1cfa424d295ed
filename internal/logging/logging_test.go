package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(tt.level, FormatJSON)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"", FormatJSON, FormatConsole, "Console"} {
		_, err := New("info", format)
		assert.NoError(t, err, format)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("chatty", FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "chatty"`)
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := New("info", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log format "xml"`)
}
