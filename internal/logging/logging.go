package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/tomasz-mizak/chatguard/internal/config"
)

type Logger = zerolog.Logger

// New builds the service logger from settings. Unknown levels fall back to info.
func New(cfg *config.Config) Logger {
	return NewWriter(cfg, os.Stderr)
}

// NewWriter is New with an explicit destination.
func NewWriter(cfg *config.Config, out io.Writer) Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	if cfg.LogPretty() {
		out = zerolog.ConsoleWriter{Out: out}
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
