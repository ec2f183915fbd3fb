package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const DefaultLogLevel = "info"

// Config holds logger configuration
type Config struct {
	output       io.Writer
	level        zerolog.Level
	excludeParts []string
	console      bool
}

// Option configures the logger
type Option func(*Config)

// WithLevel sets the logger level
func WithLevel(level string) Option {
	return func(cfg *Config) {
		cfg.level = parseLevel(level)
	}
}

// WithConsoleWriter toggles the human readable console writer
func WithConsoleWriter(enabled bool) Option {
	return func(cfg *Config) {
		cfg.console = enabled
	}
}

// WithOutput sets the output writer
func WithOutput(output io.Writer) Option {
	return func(cfg *Config) {
		cfg.output = output
	}
}

// New creates a new logger instance
func New(opts ...Option) *zerolog.Logger {
	cfg := &Config{
		output:       os.Stderr,
		level:        zerolog.InfoLevel,
		excludeParts: []string{zerolog.TimestampFieldName},
		console:      true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := zerolog.New(cfg.output).Level(cfg.level)
	if cfg.console {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:          cfg.output,
			PartsExclude: cfg.excludeParts,
		})
	}
	return &logger
}

// NewConsoleLogger returns the logger used by the command line; verbose
// switches it to debug level.
func NewConsoleLogger(verbose bool) *zerolog.Logger {
	level := DefaultLogLevel
	if verbose {
		level = "debug"
	}
	return New(WithLevel(level))
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
