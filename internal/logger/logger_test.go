package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/mtgsim/mtgsim/pkg/types"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected types.LogLevel
	}{
		{"META", types.META},
		{"GAME", types.GAME},
		{"PLAYER", types.PLAYER},
		{"CARD", types.CARD},
		{"invalid", types.CARD},
		{"", types.CARD},
	}

	for _, test := range tests {
		require.Equal(t, test.expected, ParseLogLevel(test.input))
	}
}

func TestSetLogLevel(t *testing.T) {
	original := currentLogLevel
	defer func() { currentLogLevel = original }()

	SetLogLevel(types.META)
	require.Equal(t, types.META, currentLogLevel)

	SetLogLevel(types.PLAYER)
	require.Equal(t, types.PLAYER, currentLogLevel)
}

func captureSink(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	originalSink := sink
	sink = newSink(zapcore.AddSync(&buf))
	t.Cleanup(func() { sink = originalSink })
	return &buf
}

func TestLoggingRespectsLevel(t *testing.T) {
	buf := captureSink(t)
	original := currentLogLevel
	defer func() { currentLogLevel = original }()

	SetLogLevel(types.CARD)
	LogMeta("meta message")
	LogGame("game message")
	LogPlayer("player message")
	LogCard("card message")
	LogDeck("deck message")

	output := buf.String()
	for _, want := range []string{"META: meta message", "GAME: game message", "PLAYER: player message", "CARD: card message", "DECK: deck message"} {
		require.Contains(t, output, want)
	}

	buf.Reset()
	SetLogLevel(types.GAME)
	LogMeta("meta 2")
	LogGame("game 2")
	LogPlayer("player 2")
	LogCard("card 2")

	output = buf.String()
	require.Contains(t, output, "META: meta 2")
	require.Contains(t, output, "GAME: game 2")
	require.NotContains(t, output, "PLAYER: player 2")
	require.NotContains(t, output, "CARD: card 2")
}

func TestLoggingWithFormatting(t *testing.T) {
	buf := captureSink(t)
	original := currentLogLevel
	defer func() { currentLogLevel = original }()

	SetLogLevel(types.CARD)
	LogGame("Player %s has %d life", "Alice", 20)
	LogCard("Drawing card: %s", "Lightning Bolt")

	output := buf.String()
	require.Contains(t, output, "GAME: Player Alice has 20 life")
	require.Contains(t, output, "CARD: Drawing card: Lightning Bolt")
}
