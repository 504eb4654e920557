package tracing

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const generationTracerName = "github.com/KasumiMercury/primind-commute-slots/internal/service/generation"

func GenerationTracer() trace.Tracer {
	return otel.Tracer(generationTracerName)
}

func StartGenerationSpan(ctx context.Context, date time.Time, runID string) (context.Context, trace.Span) {
	return GenerationTracer().Start(ctx, "generation.run",
		trace.WithAttributes(
			attribute.String("generation.date", date.Format(time.DateOnly)),
			attribute.String("generation.run_id", runID),
		),
	)
}

func StartWindowSpan(ctx context.Context, window string, users, slots int) (context.Context, trace.Span) {
	return GenerationTracer().Start(ctx, "generation.window",
		trace.WithAttributes(
			attribute.String("window", window),
			attribute.Int("window.users", users),
			attribute.Int("window.slots", slots),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return GenerationTracer().Start(ctx, "generation.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartRedisOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return GenerationTracer().Start(ctx, "generation.redis."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartRepositorySpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return GenerationTracer().Start(ctx, "generation.db."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordWindowResult(span trace.Span, displaced, overloaded, passes int) {
	span.SetAttributes(
		attribute.Int("window.displaced_count", displaced),
		attribute.Int("window.overloaded_count", overloaded),
		attribute.Int("window.passes", passes),
	)
	span.SetStatus(codes.Ok, "")
}

func RecordGenerationResult(span trace.Span, recommendations, displaced int, err error) {
	span.SetAttributes(
		attribute.Int("generation.recommendation_count", recommendations),
		attribute.Int("generation.displaced_count", displaced),
	)
	RecordError(span, err)
}

// RecordError marks the span failed when err is set and ok otherwise.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// InjectToHTTPRequest propagates the active span context into outgoing headers.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// ExtractFromHTTPRequest reads an incoming span context from request headers.
func ExtractFromHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(req.Header))
}
