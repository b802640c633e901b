package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GetLogger returns a contextualized logger with the given name.
// The registry tags all of its internal debug output this way so host
// applications can filter it by component.
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// WithFields returns a logger with additional fields
func WithFields(fields map[string]interface{}) zerolog.Logger {
	logger := log.Logger
	for k, v := range fields {
		logger = logger.With().Interface(k, v).Logger()
	}
	return logger
}

// Nop returns a disabled logger for callers that want the library silent.
// Output otherwise follows whatever the host application configured on
// zerolog's global logger; this is the opt-out.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
