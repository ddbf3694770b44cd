// backend-go/pkg/logger/logger.go
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	// Default to console output with color
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}

	Log = zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetLevel sets the global log level. It accepts either a zerolog level
// name or a gin server mode, so SERVER_MODE can drive logging directly:
// release runs at info, test at warn, debug at debug.
func SetLevel(levelStr string) {
	level, ok := levelForMode(levelStr)
	if !ok {
		parsed, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
			parsed = zerolog.InfoLevel
		}
		level = parsed
	}

	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
}

func levelForMode(mode string) (zerolog.Level, bool) {
	switch mode {
	case "release":
		return zerolog.InfoLevel, true
	case "test":
		return zerolog.WarnLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	}
	return zerolog.NoLevel, false
}
