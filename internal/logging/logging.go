// Package logging builds the root zerolog.Logger used throughout the sync
// engine, with one child logger per component (store, syncer, task) in the
// style of aristath-sentinel's scheduler component loggers.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds a root logger at the given level ("debug", "info", "warn",
// "error"). Unknown levels fall back to info. Output is console-pretty,
// matching a developer-run CLI/server rather than a log-aggregator target.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().
		Timestamp().
		Logger()
}

// Component returns a child logger tagged with a component name, e.g.
// "orchestrator", "syncer", "store".
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
