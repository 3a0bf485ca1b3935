// Package logging builds the process logger. Diagnostics go to stderr so
// stdout stays clean for prompts and reports.
package logging

import (
	"go.uber.org/zap"
)

// New constructs a console logger at the given level. An unrecognized level
// falls back to warn.
func New(level string) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	parsed, err := zap.ParseAtomicLevel(level)
	if err != nil {
		parsed = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Level = parsed

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
