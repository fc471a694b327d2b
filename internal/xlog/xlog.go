// Package xlog is a thin wrapper around charmbracelet/log giving every
// subsystem (render loop, compiler, bridge, voice pool) a consistently
// prefixed structured logger, the same "one shared logger, sub-loggers per
// concern" shape the teacher's packages imply through plain fmt but never
// quite standardize — here it's made explicit and reused everywhere.
package xlog

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the shared structured logger type; re-exported so callers
// don't need to import charmbracelet/log directly.
type Logger = log.Logger

var base = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05",
})

// For returns a sub-logger tagged with a "component" field, e.g.
// xlog.For("render") or xlog.For("compiler").
func For(component string) *Logger {
	return base.With("component", component)
}

// SetLevel adjusts the base logger's verbosity (e.g. from a -v/-q flag).
func SetLevel(level log.Level) {
	base.SetLevel(level)
}

// SetFormat switches the base logger between "text" and "json" output,
// the knob a headless/CI render run wants over the default human format.
func SetFormat(format string) {
	switch format {
	case "json":
		base.SetFormatter(log.JSONFormatter)
	default:
		base.SetFormatter(log.TextFormatter)
	}
}
