package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"commodity-forecast/internal/config"

	"github.com/rs/zerolog"
)

// New builds the process logger from the log section of the config.
// Output is stdout, stderr or a file path opened in append mode.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}

	var output io.Writer
	switch cfg.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("could not open log file: %w", err)
		}
		output = file
	}

	return NewWithWriter(output, level, cfg.Format), nil
}

// NewWithWriter builds a logger on an explicit writer. format "console"
// gives human-readable output, anything else JSON.
func NewWithWriter(w io.Writer, level zerolog.Level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}
