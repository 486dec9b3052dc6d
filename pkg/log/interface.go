// Package log provides a structured logging interface for dbscango.
//
// The interface is slog-compatible so callers can swap implementations, while the
// default implementation is backed by zerolog. Clustering runs, quality scoring
// and parameter sweeps log through this interface using the attribute keys in
// attributes.go.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("cluster.dbscan").With(
//	    log.EstimatorIDKey, id,
//	)
//	logger.Info("fit completed",
//	    log.EpsilonKey, 0.12,
//	    log.MinPointsKey, 3,
//	    log.ClustersKey, 8,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key/value pairs. Implementations must be safe
// for concurrent use because sweep workers share a logger.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is an error it is attached as the record's error,
	// together with its stack trace when one was recorded.
	//
	// Example:
	//   logger.Error("sweep cell failed",
	//       err,
	//       log.EpsilonKey, 0.08,
	//       log.MinPointsKey, 4,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider defines an interface for creating and configuring loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a specific name/component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
