// Package logging configures the process-wide zerolog logger.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup parses level and installs the global logger. With pretty set, log
// lines go through the human-readable console writer instead of JSON.
func Setup(level string, pretty bool) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed)

	if pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
		return nil
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	return nil
}
