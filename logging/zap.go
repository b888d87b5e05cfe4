package logging

import (
	"go.uber.org/zap"
)

// ZapAdapter wraps *zap.SugaredLogger to implement the Logger interface.
// Key/value args are forwarded as zap's loosely-typed context pairs.
type ZapAdapter struct {
	sugar *zap.SugaredLogger
}

// Debug logs a debug message.
func (z *ZapAdapter) Debug(msg string, args ...any) { z.sugar.Debugw(msg, args...) }

// Info logs an informational message.
func (z *ZapAdapter) Info(msg string, args ...any) { z.sugar.Infow(msg, args...) }

// Warn logs a warning message.
func (z *ZapAdapter) Warn(msg string, args ...any) { z.sugar.Warnw(msg, args...) }

// Error logs an error message.
func (z *ZapAdapter) Error(msg string, args ...any) { z.sugar.Errorw(msg, args...) }

// NewZapAdapter creates a Logger from *zap.Logger.
func NewZapAdapter(logger *zap.Logger) Logger {
	return &ZapAdapter{sugar: logger.Sugar()}
}

// NewZapLogger builds a production zap Logger. Falls back to a no-op zap
// core if construction fails so callers never receive a nil Logger.
func NewZapLogger() Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	return NewZapAdapter(logger)
}
