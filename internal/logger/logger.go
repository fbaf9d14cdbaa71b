package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the process-wide logger. Debug mode switches to a
// human readable console writer and lowers the level to debug.
func Init(debug bool) {
	level := zerolog.InfoLevel
	var out io.Writer = os.Stdout

	if debug {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	log = zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Debug().Msg("logger initialized")
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	log = log.Output(w)
}

func Debug(msg string, fields map[string]any) {
	log.Debug().Fields(fields).Msg(msg)
}

func Info(msg string, fields map[string]any) {
	log.Info().Fields(fields).Msg(msg)
}

func Warn(msg string, fields map[string]any) {
	log.Warn().Fields(fields).Msg(msg)
}

func Error(msg string, fields map[string]any) {
	log.Error().Fields(fields).Msg(msg)
}

func Fatal(msg string, fields map[string]any) {
	log.Fatal().Fields(fields).Msg(msg)
}
