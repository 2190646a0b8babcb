// Package observability provides the logging, metrics, and tracing hooks
// used by propbox registries and the containers built on them.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds registry context to a logger.
// Returns a new logger with the registry field set.
//
// Example:
//
//	enriched := EnrichLogger(logger, "properties")
//	enriched.Info("doing work") // includes registry
func EnrichLogger(logger *slog.Logger, registry string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("registry", registry))
}

// LogRegister logs a new type registration.
func LogRegister(logger *slog.Logger, typeName string, tag int) {
	if logger == nil {
		return
	}
	logger.Debug("type registered",
		slog.String("type", typeName),
		slog.Int("tag", tag),
	)
}

// LogConflict logs a rejected registration.
func LogConflict(logger *slog.Logger, typeName string, tag int, err error) {
	if logger == nil {
		return
	}
	logger.Warn("type registration rejected",
		slog.String("type", typeName),
		slog.Int("tag", tag),
		slog.String("error", err.Error()),
	)
}

// LogTypeChange logs a container switching its payload type.
func LogTypeChange(logger *slog.Logger, key any, from, to string) {
	if logger == nil {
		return
	}
	logger.Debug("payload type changed",
		slog.Any("key", key),
		slog.String("from", from),
		slog.String("to", to),
	)
}

// LogMismatch logs an access with the wrong type.
func LogMismatch(logger *slog.Logger, op string, want, got string) {
	if logger == nil {
		return
	}
	logger.Debug("type mismatch",
		slog.String("op", op),
		slog.String("want", want),
		slog.String("got", got),
	)
}

// LogInvokeError logs a failed callable invocation.
func LogInvokeError(logger *slog.Logger, algorithmID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("invoke failed",
		slog.String("algorithm_id", algorithmID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Millis converts a duration to fractional milliseconds for log fields.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
