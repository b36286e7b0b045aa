// Package logging holds the process-wide zap logger shared by every engine package.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger configures the logger for the engine and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Levels used:
//   - Debug: per-frame or per-event diagnostics (state transitions, tween starts)
//   - Info: lifecycle events (adapter selected, gallery ready, fallback decision)
//   - Warn: degraded behavior (malformed config values, failed slides, inert controllers)
//   - Error: failures that stop the engine
//
// Parameters:
//   - l: the logger to install
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l)
}

// L returns the current logger. Safe for concurrent use.
func L() *zap.Logger {
	return loggerPtr.Load()
}

// Named returns a child of the current logger scoped to a component name.
func Named(component string) *zap.Logger {
	return L().Named(component)
}
