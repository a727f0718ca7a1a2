// Package logging builds the zap logger used by the pipeline runner and
// the CLI. The core analysis packages do not log; they return anomaly
// records instead.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Style selects the log output format.
type Style string

const (
	// StyleTerminal is human-readable development output.
	StyleTerminal Style = "terminal"
	// StyleJSON is structured production output.
	StyleJSON Style = "json"
	// StyleNoop discards all logs.
	StyleNoop Style = "noop"
)

// Config holds the logging settings.
type Config struct {
	// Style selects the output format (default: terminal).
	Style Style `yaml:"style"`

	// Level is the minimum level to emit: debug, info, warn, error
	// (default: info).
	Level string `yaml:"level"`
}

// New creates a zap logger from the config. A nil config or empty fields
// default to terminal style at info level.
func New(c *Config) (*zap.Logger, error) {
	style := StyleTerminal
	level := zapcore.InfoLevel

	if c != nil {
		if c.Style != "" {
			style = c.Style
		}
		if c.Level != "" {
			parsed, err := zapcore.ParseLevel(c.Level)
			if err != nil {
				return nil, fmt.Errorf("parse log level %q: %w", c.Level, err)
			}
			level = parsed
		}
	}

	switch style {
	case StyleNoop:
		return zap.NewNop(), nil
	case StyleJSON:
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		return cfg.Build()
	case StyleTerminal:
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		return cfg.Build()
	default:
		return nil, fmt.Errorf("unknown log style %q", style)
	}
}
