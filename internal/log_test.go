package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		ok   bool
	}{
		{in: "ERROR", want: LogLevelError, ok: true},
		{in: "debug", want: LogLevelDebug, ok: true},
		{in: " Trace ", want: LogLevelTrace, ok: true},
		{in: "verbose", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLogLevel(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLoggerLevelsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelInfo).WithComponent("Runner")

	logger.Debug("hidden %d", 1)
	logger.Info("computed %d statistics", 3)
	logger.Error("failed")

	assert.Equal(t, "[INFO] [Runner] computed 3 statistics\n[ERROR] [Runner] failed\n", buf.String())
	assert.Equal(t, "INFO", logger.GetLevel().String())

	buf.Reset()
	logger.SetLevel(LogLevelTrace)
	logger.Trace("visible")
	assert.Equal(t, "[TRACE] [Runner] visible\n", buf.String())
}
