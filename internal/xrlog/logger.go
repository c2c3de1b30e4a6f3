//go:build !logless

// Package xrlog is the process-wide structured logger used by
// pkg/device, pkg/slam, and pkg/frame: zerolog behind a console writer
// with caller info. The logless build variant in logger_logless.go
// compiles the whole thing down to a no-op for size-constrained
// builds.
package xrlog

import (
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Log is the package-wide logger instance.
var Log = zlog.With().Caller().Logger().Output(zerolog.ConsoleWriter{Out: os.Stderr})

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// SetLevel adjusts the process-wide minimum log level.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}
