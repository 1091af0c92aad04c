// internal/config/logging.go
//
// Global logger setup.
// Responsibilities:
//   - Apply LOG_LEVEL to zerolog.
//   - Switch between JSON and console output with LOG_FORMAT.

package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConfigureLogger applies LOG_LEVEL and LOG_FORMAT to the global zerolog logger.
// An unparseable level leaves the current global level in place.
func (c Config) ConfigureLogger(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
