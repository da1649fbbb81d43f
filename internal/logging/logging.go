package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"taobao-orders/backend/internal/config"
)

// New builds a logger writing to w (stdout when nil).
func New(cfg config.Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Str("service", "taobao-orders").Logger()
}

// Setup installs the configured logger as the global zerolog logger.
func Setup(cfg config.Config) zerolog.Logger {
	l := New(cfg, nil)
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}
