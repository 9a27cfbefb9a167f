package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.in))
		})
	}
}

func TestForComponent_AddsField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := ForComponent(NewZapAdapter(zap.New(core)), "gate")

	log.Info("evaluated", map[string]interface{}{"level": "minimal"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "evaluated", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "gate", ctx["component"])
	assert.Equal(t, "minimal", ctx["level"])
}

func TestWithError_KeepsErrorMessage(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.WithError(errors.New("boom")).Warn("extraction failed", nil)
	log.Error("classifier failed", map[string]interface{}{"cause": errors.New("timeout")})

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "boom", logs.All()[0].ContextMap()["error"])
	assert.Equal(t, "timeout", logs.All()[1].ContextMap()["cause"])
}

func TestNewWithOptions_FallsBackOnBadOutput(t *testing.T) {
	l := NewWithOptions(Options{Level: "info", Format: "json", Output: "/nonexistent-dir/x/y.log"})
	assert.NotNil(t, l)
}
