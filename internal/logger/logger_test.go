package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"yashubustudio/slotguide/slots"
)

var _ slots.Logger = (*Logger)(nil)

func TestLoggerWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core), false)

	l.With("component", "validator").Info("entity rejected", "slot", "categoria", "value", "vacuna")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "entity rejected", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "validator", fields["component"])
	assert.Equal(t, "categoria", fields["slot"])
	assert.Equal(t, "vacuna", fields["value"])
}

func TestLoggerRedactsConversationData(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core), true)

	l.Error("turn failed", "conversation_id", "user-42", "text", "hola soy Ana", "intent", "afirmar")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["text"])
	assert.Equal(t, "afirmar", fields["intent"])
	id, ok := fields["conversation_id"].(string)
	require.True(t, ok)
	assert.NotEqual(t, "user-42", id)
	assert.Contains(t, id, "hash:")
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "production"} {
		l, err := New(mode, false)
		require.NoError(t, err, mode)
		l.Debug("debug")
	}
	Nop().Info("discarded")
}
