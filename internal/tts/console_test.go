package tts

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConsole_Speak(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	require.NoError(t, c.Speak(context.Background(), "Video paused."))
	require.NoError(t, c.Speak(context.Background(), ""))
	require.Equal(t, "Assistant: Video paused.\n", buf.String())
}

func TestConsole_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, c.Speak(ctx, "hello"), context.Canceled)
	require.Empty(t, buf.String())
}

func TestNewEspeak_Defaults(t *testing.T) {
	e := NewEspeak("", 165)
	require.Equal(t, "en", e.Voice)
	require.Equal(t, 165, e.Rate)
}
