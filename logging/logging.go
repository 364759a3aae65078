// Package logging wires zerolog component loggers for the engine. Library
// packages log through the component loggers; they stay disabled until a
// host or CLI calls Init.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Component loggers. Disabled by default so the engine is silent when
// embedded in a host that does its own logging.
var (
	Root    = zerolog.Nop()
	Decoder = zerolog.Nop()
	Lift    = zerolog.Nop()
	DB      = zerolog.Nop()
	Store   = zerolog.Nop()
)

// Options configures Init.
type Options struct {
	// Level is the minimum level to emit.
	Level zerolog.Level
	// Console renders human-readable output instead of JSON.
	Console bool
	// Out overrides the output writer; defaults to stderr.
	Out io.Writer
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(level))
}

// Init configures the root logger and derives the component loggers.
func Init(opts Options) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	Root = zerolog.New(out).Level(opts.Level).With().Timestamp().Logger()
	Decoder = Root.With().Str("component", "decoder").Logger()
	Lift = Root.With().Str("component", "lift").Logger()
	DB = Root.With().Str("component", "db").Logger()
	Store = Root.With().Str("component", "store").Logger()
}
