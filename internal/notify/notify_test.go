package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapNotifierLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := NewZapNotifier(zap.New(core))

	n.Notify(Success("done"))
	n.Notify(Error("broke"))
	n.Notify(Info("fyi"))

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "done", entries[0].Message)
	assert.Equal(t, "success", entries[0].ContextMap()["kind"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Notify(Success("one"))
	r.Notify(Info("two"))

	events := r.Events()
	require.Len(t, events, 2)
	assert.Equal(t, KindSuccess, events[0].Kind)
	assert.Equal(t, "two", events[1].Message)

	r.Reset()
	assert.Empty(t, r.Events())
}
