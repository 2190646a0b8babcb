package cmd

import (
	"context"
	"errors"
	"log/slog"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/randalmurphal/propbox/pkg/propbox/config"
	"github.com/randalmurphal/propbox/pkg/propbox/observability"
	"github.com/randalmurphal/propbox/pkg/propbox/tags"
)

// setupTelemetry builds the meter and tracer providers the config enables.
// Both export through the logger. The returned function flushes and stops
// them.
func setupTelemetry(ctx context.Context, cfg config.Config, logger *slog.Logger) ([]tags.Option, func(context.Context) error, error) {
	// Disabled sinks are reset explicitly; Configure keeps hooks it is not given.
	opts := []tags.Option{
		tags.WithMetrics(observability.NoopMetrics{}),
		tags.WithSpanManager(observability.NoopSpanManager{}),
	}
	var stops []func(context.Context) error

	if cfg.Metrics.Enabled {
		reader := sdkmetric.NewPeriodicReader(
			observability.NewLogMetricExporter(logger),
			sdkmetric.WithInterval(cfg.Metrics.Interval),
		)
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		m, err := observability.NewMetricsRecorderFor(mp)
		if err != nil {
			_ = mp.Shutdown(ctx)
			return nil, nil, err
		}
		opts = append(opts, tags.WithMetrics(m))
		stops = append(stops, mp.Shutdown)
	}

	if cfg.Tracing.Enabled {
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(observability.NewLogSpanExporter(logger)),
		)
		opts = append(opts, tags.WithSpanManager(observability.NewSpanManagerFor(tp)))
		stops = append(stops, tp.Shutdown)
	}

	stop := func(ctx context.Context) error {
		var errs []error
		for _, s := range stops {
			errs = append(errs, s(ctx))
		}
		return errors.Join(errs...)
	}
	return opts, stop, nil
}
