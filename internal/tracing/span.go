package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartRunSpan starts the span covering one variant run.
func StartRunSpan(ctx context.Context, tracer trace.Tracer, variant, kind string, workers, requests int) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "benchmark "+variant,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(
		attribute.String("reqbench.variant", variant),
		attribute.String("reqbench.kind", kind),
		attribute.Int("reqbench.workers", workers),
		attribute.Int("reqbench.requests_per_worker", requests),
	)
	return ctx, span
}

// StartWorkerSpan starts the span covering one worker loop.
func StartWorkerSpan(ctx context.Context, tracer trace.Tracer, worker int) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "worker",
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(attribute.Int("reqbench.worker", worker))
	return ctx, span
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
