// Package logger provides leveled logging for the simulator, keeping the
// teacher's four-tier META/GAME/PLAYER/CARD API over a structured zap
// core so every call carries a timestamp and can be redirected in tests.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mtgsim/mtgsim/pkg/types"
)

var currentLogLevel = types.GAME

// silenced gates every tier at once, for callers (the CLI's `verbosity`
// flag) that need an "off" setting below META — something the teacher's
// four-tier LogLevel enum has no value for.
var silenced bool

var sink = newSink(os.Stdout)

func newSink(w zapcore.WriteSyncer) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "t"
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), w, zapcore.DebugLevel)
	return zap.New(core)
}

// SetLogLevel sets the minimum tier that will be emitted.
func SetLogLevel(level types.LogLevel) {
	currentLogLevel = level
}

// SetSilent mutes every tier when b is true, regardless of the level set
// by SetLogLevel. Used for the CLI's `verbosity=silent` setting.
func SetSilent(b bool) {
	silenced = b
}

// LogMeta logs meta-level messages (simulation setup/results).
func LogMeta(message string, args ...interface{}) { emit(types.META, "META", message, args) }

// LogGame logs game-level messages (phase/turn transitions, SBAs).
func LogGame(message string, args ...interface{}) { emit(types.GAME, "GAME", message, args) }

// LogPlayer logs player-level messages (decisions, priority, life totals).
func LogPlayer(message string, args ...interface{}) { emit(types.PLAYER, "PLAYER", message, args) }

// LogCard logs card-level messages (ability resolution, combat damage).
func LogCard(message string, args ...interface{}) { emit(types.CARD, "CARD", message, args) }

// LogDeck logs deck-loading diagnostics, gated at the CARD tier like the
// teacher's own DECK channel.
func LogDeck(message string, args ...interface{}) { emit(types.CARD, "DECK", message, args) }

func emit(level types.LogLevel, tag, message string, args []interface{}) {
	if silenced || currentLogLevel < level {
		return
	}
	sink.Info(tag + ": " + fmt.Sprintf(message, args...))
}

// With returns a zap.Logger carrying the given structured fields, for
// call sites that want key/value context alongside a message (e.g. the
// engine attaching turn/phase/player fields to a diagnostic).
func With(fields ...zap.Field) *zap.Logger { return sink.With(fields...) }

// ParseLogLevel parses a string into a LogLevel, defaulting to CARD (most
// verbose) on an unrecognized value.
func ParseLogLevel(level string) types.LogLevel {
	switch level {
	case "META":
		return types.META
	case "GAME":
		return types.GAME
	case "PLAYER":
		return types.PLAYER
	case "CARD":
		return types.CARD
	default:
		return types.CARD
	}
}
