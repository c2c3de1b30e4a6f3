//go:build logless

package xrlog

import "github.com/rs/zerolog"

// Log is a no-op logger for logless builds, typed as a real
// zerolog.Logger backed by zerolog.Nop() so call sites never need a
// build-tag-specific API.
var Log = zerolog.Nop()

// SetLevel is a no-op in logless builds.
func SetLevel(level zerolog.Level) {}
