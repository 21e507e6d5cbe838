// ABOUTME: Structured logging setup using zerolog
// ABOUTME: Console output on stderr, colour only when attached to a terminal
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Init installs the global logger at the given level. Unknown levels fall back to info.
func Init(level string) {
	InitWriter(os.Stderr, level, !term.IsTerminal(int(os.Stderr.Fd())))
}

// InitWriter is Init with an explicit destination.
func InitWriter(out io.Writer, level string, noColor bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(level))
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
}

func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
