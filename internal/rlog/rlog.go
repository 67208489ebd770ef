// Package rlog wires the driver's per-round structured logging: a
// zerolog.Logger writing to the round directory's logFile, at a level
// derived from the spec's FINE/INFO/WARNING/SEVERE vocabulary (spec.md
// §6: "logFile.level : Level (default FINE)").
package rlog

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Level is the spec's own level vocabulary (a java.util.logging-style
// set), kept distinct from zerolog.Level so config parsing stays
// decoupled from the logging library's own names.
type Level string

const (
	Severe  Level = "SEVERE"
	Warning Level = "WARNING"
	Info    Level = "INFO"
	Fine    Level = "FINE"
)

// zerologLevel maps the spec's level vocabulary onto zerolog's, per
// SPEC_FULL.md's AMBIENT STACK section: FINE maps to Debug, so
// per-round diagnostic detail is visible at the driver's most verbose
// configured level without inventing a fifth zerolog level.
func (l Level) zerologLevel() zerolog.Level {
	switch strings.ToUpper(string(l)) {
	case string(Severe):
		return zerolog.ErrorLevel
	case string(Warning):
		return zerolog.WarnLevel
	case string(Info):
		return zerolog.InfoLevel
	case string(Fine):
		return zerolog.DebugLevel
	default:
		return zerolog.DebugLevel
	}
}

// New builds a round-scoped logger writing to w at the given level,
// tagged with the round number and phase so multiple rounds' logs can
// be grepped from a single aggregated stream as well as their own
// per-round file.
func New(w io.Writer, level Level, round int, phase string) zerolog.Logger {
	return zerolog.New(w).
		Level(level.zerologLevel()).
		With().
		Timestamp().
		Int("round", round).
		Str("phase", phase).
		Logger()
}
