package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, LevelDebug, lvl)

	lvl, ok = ParseLevel("")
	assert.True(t, ok)
	assert.Equal(t, LevelInfo, lvl)

	_, ok = ParseLevel("loud")
	assert.False(t, ok)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestLoggerLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core), LevelInfo)

	l.Debug("hidden")
	l.With(String("scene", "main")).Info("decoded", Int("records", 3), Error(errors.New("boom")))
	require.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	assert.Equal(t, "decoded", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "main", ctx["scene"])
	assert.EqualValues(t, 3, ctx["records"])
	assert.Equal(t, "boom", ctx["error"])

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
	l.Debug("visible")
	assert.Equal(t, 2, logs.Len())
}

func TestNopLoggerIsSilent(t *testing.T) {
	l := NewNop()
	l.Error("nothing happens")
	assert.Equal(t, LevelSilent, l.GetLevel())
}
