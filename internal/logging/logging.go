// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LevelEnv overrides the configured level when set.
const LevelEnv = "VISUAL_MATCH_LOG_LEVEL"

// Setup points the global logger at w (stderr when nil) with a console
// writer and sets the global level. An empty level means "info".
//
// stdout is reserved for tool-server responses, so logs never go there by
// default.
func Setup(level string, w io.Writer) error {
	if env := os.Getenv(LevelEnv); env != "" {
		level = env
	}
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	if w == nil {
		w = os.Stderr
	}

	zerolog.SetGlobalLevel(lvl)
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: w != io.Writer(os.Stderr)}
	log.Logger = zerolog.New(console).
		With().
		Timestamp().
		Logger()
	return nil
}

// Quiet silences all logging, for embedding the engine as a library.
func Quiet() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}
