// Package logging builds the root zerolog.Logger for the service. Every
// component receives its own tagged child logger via .With().Str(...)
// rather than reaching for a package-level global.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokaycavdar/fraudguard/internal/config"
)

// New builds the root logger from cfg: console-writer output in any
// non-"json" format (useful for local development), structured JSON
// otherwise.
func New(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var writer = os.Stdout
	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	if strings.ToLower(cfg.Format) != "json" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05"})
	}
	return logger
}
