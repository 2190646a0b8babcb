package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome values attached to access metrics.
const (
	OutcomeOK       = "ok"
	OutcomeMismatch = "mismatch"
	OutcomeError    = "error"
)

// MetricsRecorder records propbox metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRegistration records a type bound to a tag.
	RecordRegistration(ctx context.Context, registry, typeName string)

	// RecordAccess records a get/set on a container with its outcome.
	RecordAccess(ctx context.Context, registry, op, typeName, outcome string)

	// RecordMismatch records a typed access against a box holding another type.
	RecordMismatch(ctx context.Context, registry, want, got string)

	// RecordInvoke records a callable invocation with its duration and error status.
	RecordInvoke(ctx context.Context, registry, typeName string, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	registrations metric.Int64Counter
	accesses      metric.Int64Counter
	mismatches    metric.Int64Counter
	invocations   metric.Int64Counter
	invokeErrors  metric.Int64Counter
	invokeLatency metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily builds the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.Meter("propbox"))
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	registrations, err := meter.Int64Counter("propbox.registry.registrations",
		metric.WithDescription("Number of type registrations"),
	)
	if err != nil {
		return nil, err
	}

	accesses, err := meter.Int64Counter("propbox.container.accesses",
		metric.WithDescription("Number of typed container accesses"),
	)
	if err != nil {
		return nil, err
	}

	mismatches, err := meter.Int64Counter("propbox.container.mismatches",
		metric.WithDescription("Number of accesses rejected with a type mismatch"),
	)
	if err != nil {
		return nil, err
	}

	invocations, err := meter.Int64Counter("propbox.algorithm.invocations",
		metric.WithDescription("Number of callable invocations"),
	)
	if err != nil {
		return nil, err
	}

	invokeErrors, err := meter.Int64Counter("propbox.algorithm.errors",
		metric.WithDescription("Number of failed callable invocations"),
	)
	if err != nil {
		return nil, err
	}

	invokeLatency, err := meter.Float64Histogram("propbox.algorithm.latency_ms",
		metric.WithDescription("Callable invocation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		registrations: registrations,
		accesses:      accesses,
		mismatches:    mismatches,
		invocations:   invocations,
		invokeErrors:  invokeErrors,
		invokeLatency: invokeLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderFor returns a MetricsRecorder on an explicit provider
// instead of the global one.
func NewMetricsRecorderFor(mp metric.MeterProvider) (MetricsRecorder, error) {
	return newOtelMetrics(mp.Meter("propbox"))
}

func (m *otelMetrics) RecordRegistration(ctx context.Context, registry, typeName string) {
	m.registrations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("registry", registry),
		attribute.String("type", typeName),
	))
}

func (m *otelMetrics) RecordAccess(ctx context.Context, registry, op, typeName, outcome string) {
	m.accesses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("registry", registry),
		attribute.String("op", op),
		attribute.String("type", typeName),
		attribute.String("outcome", outcome),
	))
}

func (m *otelMetrics) RecordMismatch(ctx context.Context, registry, want, got string) {
	m.mismatches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("registry", registry),
		attribute.String("want", want),
		attribute.String("got", got),
	))
}

func (m *otelMetrics) RecordInvoke(ctx context.Context, registry, typeName string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("registry", registry),
		attribute.String("type", typeName),
	}

	m.invocations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.invokeLatency.Record(ctx, Millis(duration), metric.WithAttributes(attrs...))

	if err != nil {
		m.invokeErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
