// Package xlog constructs the zap logger used by the CLI. The core
// translation pipeline (internal/shexc, internal/convert, internal/shaclrdf)
// never logs on its own -- callers that want to observe warnings pass a
// *zap.Logger explicitly (see shapeconv.*WithLogger); a nil logger there
// means no logging.
package xlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a human-readable console logger at the given level, suitable
// for CLI use. level must be one of "debug", "info", "warn", "error".
func New(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(level)); err == nil {
		// accepted
	} else if level != "" {
		return nil, err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = ""
	return cfg.Build()
}

// Noop returns a logger that discards everything.
func Noop() *zap.Logger {
	return zap.NewNop()
}
