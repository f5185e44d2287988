// Package types holds the observability contracts shared by every depfetch
// component: a context-aware structured Logger and a Prometheus-style Metrics
// recorder.
package types

import (
	"context"
	"io"
)

// Logger defines the contract for structured logging.
// Implementations emit one JSON object per entry.
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, fields Fields)

	// Error logs an error message with the associated error.
	Error(ctx context.Context, msg string, err error, fields Fields)

	// Warn logs a warning message.
	Warn(ctx context.Context, msg string, fields Fields)

	// Debug logs a debug message. Filtered out unless the level is "debug".
	Debug(ctx context.Context, msg string, fields Fields)

	// WithFields returns a new Logger instance with additional persistent fields.
	// The returned logger will include these fields in all subsequent log entries.
	WithFields(fields Fields) Logger
}

// Metrics defines the contract for metrics collection.
// All metrics should follow Prometheus naming conventions.
type Metrics interface {
	// RecordSuccess increments the success counter for a specific operation type.
	RecordSuccess(operationType string)

	// RecordError increments the error counter for a specific operation and error type.
	//
	// Parameters:
	//   - operationType: The type of operation that failed (e.g., "fetch", "store")
	//   - errorType: The category of error (e.g., "network", "filesystem")
	RecordError(operationType string, errorType string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(operation string, duration float64)

	// RecordFileSize records the size of fetched files in bytes.
	RecordFileSize(fileType string, bytes int64)

	// StartOperation increments the in-progress gauge for an operation.
	// Must be paired with EndOperation to maintain accurate counts.
	StartOperation(operation string)

	// EndOperation decrements the in-progress gauge for an operation.
	EndOperation(operation string)
}

// Fields represents structured logging fields as key-value pairs.
// Values can be any type that is JSON-serializable.
type Fields map[string]interface{}

// Config holds observability configuration for the provider.
type Config struct {
	// ServiceName identifies the service in logs and prefixes metric names.
	ServiceName string

	// Environment specifies the deployment environment.
	Environment string

	// LogLevel sets the minimum log level to output.
	// Valid values: "debug", "info", "warn", "error".
	LogLevel string

	// LogOutput specifies where logs should be written.
	// If nil, defaults to os.Stdout.
	LogOutput io.Writer

	// AdditionalFields are fields included in every log entry.
	AdditionalFields Fields
}

// Provider manages the lifecycle of observability components.
// Each component gets its own Logger and Metrics instances.
type Provider interface {
	// Logger returns a Logger instance for the specified component.
	// Multiple calls with the same component name return the same logger instance.
	Logger(component string) Logger

	// Metrics returns a Metrics instance for the specified component.
	// Multiple calls with the same component name return the same metrics instance.
	Metrics(component string) Metrics

	// Close shuts down the provider and releases all resources.
	Close() error
}
