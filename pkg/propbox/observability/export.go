package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogMetricExporter writes collected metrics to a logger at info level.
// Pair it with sdkmetric.NewPeriodicReader; the final collection is written
// when the meter provider shuts down.
type LogMetricExporter struct {
	logger *slog.Logger
}

// NewLogMetricExporter returns an exporter writing to logger.
func NewLogMetricExporter(logger *slog.Logger) *LogMetricExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMetricExporter{logger: logger}
}

func (e *LogMetricExporter) Temporality(k sdkmetric.InstrumentKind) metricdata.Temporality {
	return sdkmetric.DefaultTemporalitySelector(k)
}

func (e *LogMetricExporter) Aggregation(k sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(k)
}

// Export logs one line per data point of every counter and histogram.
func (e *LogMetricExporter) Export(ctx context.Context, rm *metricdata.ResourceMetrics) error {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					e.logger.LogAttrs(ctx, slog.LevelInfo, "metric",
						append([]slog.Attr{
							slog.String("name", m.Name),
							slog.Int64("value", dp.Value),
						}, setAttrs(dp.Attributes)...)...)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					e.logger.LogAttrs(ctx, slog.LevelInfo, "metric",
						append([]slog.Attr{
							slog.String("name", m.Name),
							slog.Uint64("count", dp.Count),
							slog.Float64("sum", dp.Sum),
						}, setAttrs(dp.Attributes)...)...)
				}
			}
		}
	}
	return nil
}

func (e *LogMetricExporter) ForceFlush(context.Context) error { return nil }

func (e *LogMetricExporter) Shutdown(context.Context) error { return nil }

// LogSpanExporter writes finished spans to a logger at debug level.
type LogSpanExporter struct {
	logger *slog.Logger
}

// NewLogSpanExporter returns an exporter writing to logger.
func NewLogSpanExporter(logger *slog.Logger) *LogSpanExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSpanExporter{logger: logger}
}

// ExportSpans logs one line per span.
func (e *LogSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		e.logger.LogAttrs(ctx, slog.LevelDebug, "span",
			append([]slog.Attr{
				slog.String("name", s.Name()),
				slog.String("trace_id", s.SpanContext().TraceID().String()),
				slog.String("status", s.Status().Code.String()),
				slog.Float64("duration_ms", Millis(s.EndTime().Sub(s.StartTime()))),
			}, kvAttrs(s.Attributes())...)...)
	}
	return nil
}

func (e *LogSpanExporter) Shutdown(context.Context) error { return nil }

func setAttrs(set attribute.Set) []slog.Attr {
	return kvAttrs(set.ToSlice())
}

func kvAttrs(kvs []attribute.KeyValue) []slog.Attr {
	out := make([]slog.Attr, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, slog.String(string(kv.Key), kv.Value.Emit()))
	}
	return out
}
