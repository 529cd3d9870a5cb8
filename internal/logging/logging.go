// Package logging configures the zerolog global logger used across
// the lexer, parser and recipe/executor packages for compilation
// diagnostics and per-action execution traces.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure installs a console-friendly zerolog writer at level and
// makes it the package-level default every other internal package logs
// through via zerolog/log.
func Configure(level zerolog.Level, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
}

func init() {
	// Quiet by default; embedders call Configure to raise the level
	// or redirect output.
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}
