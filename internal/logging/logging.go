// Package logging wires the structured logger shared by cmd/master and
// cmd/participant.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Development selects zap's human-readable console encoder instead of
	// JSON, and lowers the level to debug.
	Development bool
	// Level overrides the default level ("info" in production, "debug" in
	// development) when non-empty. Accepts any zapcore.Level name.
	Level string
}

// New builds the process-wide logger. Callers should defer logger.Sync()
// in main.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if opts.Level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("logging: invalid level %q: %w", opts.Level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	return cfg.Build()
}
