package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("propbox")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartInvokeSpan starts a span around one callable invocation.
	StartInvokeSpan(ctx context.Context, algorithmID, typeName string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct {
	tracer trace.Tracer // nil means the package tracer
}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before the first span is started:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// NewSpanManagerFor returns a SpanManager on an explicit provider instead of
// the global one.
func NewSpanManagerFor(tp trace.TracerProvider) SpanManager {
	return &otelSpanManager{tracer: tp.Tracer("propbox")}
}

func (m *otelSpanManager) StartInvokeSpan(ctx context.Context, algorithmID, typeName string) (context.Context, trace.Span) {
	if m.tracer == nil {
		return StartInvokeSpan(ctx, algorithmID, typeName)
	}
	return startInvokeSpan(ctx, m.tracer, algorithmID, typeName)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartInvokeSpan starts a span for a callable invocation.
// Uses the global OTel tracer.
func StartInvokeSpan(ctx context.Context, algorithmID, typeName string) (context.Context, trace.Span) {
	return startInvokeSpan(ctx, tracer, algorithmID, typeName)
}

func startInvokeSpan(ctx context.Context, t trace.Tracer, algorithmID, typeName string) (context.Context, trace.Span) {
	return t.Start(ctx, "propbox.invoke",
		trace.WithAttributes(
			attribute.String("algorithm.id", algorithmID),
			attribute.String("algorithm.type", typeName),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
