package log

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/chartwell/internal/pubsub"
)

func useWriter(t *testing.T, minLevel Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitWithWriter(&buf, minLevel)
	t.Cleanup(func() { defaultLogger = nil })
	return &buf
}

func TestLog_FormatsLevelCategoryAndFields(t *testing.T) {
	buf := useWriter(t, LevelDebug)

	Warn(CatUpdate, "Update for unregistered instance", "identity", "abc", "size", 2)

	line := buf.String()
	require.Contains(t, line, "[WARN] [update] Update for unregistered instance identity=abc size=2")
	require.True(t, strings.HasSuffix(line, "\n"))
}

func TestLog_MinLevelFilters(t *testing.T) {
	buf := useWriter(t, LevelInfo)

	Debug(CatPalette, "hidden")
	Info(CatPalette, "shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	SetMinLevel(LevelError)
	Warn(CatPalette, "filtered")
	require.NotContains(t, buf.String(), "filtered")
}

func TestLog_Disabled(t *testing.T) {
	buf := useWriter(t, LevelDebug)
	SetEnabled(false)
	Error(CatConfig, "nothing")
	require.Empty(t, buf.String())
}

func TestLog_OddFieldsAndErrors(t *testing.T) {
	buf := useWriter(t, LevelDebug)

	Info(CatDataset, "odd", "orphan")
	ErrorErr(CatDataset, "failed", nil)

	require.Contains(t, buf.String(), "orphan=<missing>")
	require.Contains(t, buf.String(), "error=<nil>")
}

func TestLog_NoLoggerIsSilent(t *testing.T) {
	defaultLogger = nil
	require.NotPanics(t, func() { Info(CatUI, "nobody listening") })
	require.Nil(t, NewListener(context.Background()))
}

func TestLog_ListenerReceivesEntries(t *testing.T) {
	useWriter(t, LevelDebug)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatRegistry, "Registered instance", "size", 1)

	done := make(chan any, 1)
	go func() { done <- listener.Listen()() }()

	select {
	case msg := <-done:
		event, ok := msg.(pubsub.Event[string])
		require.True(t, ok)
		require.Equal(t, pubsub.CreatedEvent, event.Type)
		require.Contains(t, event.Payload, "Registered instance size=1")
	case <-time.After(time.Second):
		t.Fatal("no log event received")
	}
}
