// Package logging provides a minimal logging interface and adapters for TangleBridge.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the dispatcher and client use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZapAdapter wrapping go.uber.org/zap
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", nil)
//	d, err := dispatch.New(reg, func(o *dispatch.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
