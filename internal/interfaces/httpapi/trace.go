package httpapi

import (
	"context"
	"strings"

	"github.com/riskibarqy/football-stats/internal/usecase"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("football-stats/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		// Untraced routes such as /healthz get no standalone root spans.
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}

// answerAttributes describes how far an invocation got. failed_stage is only
// set on failure.
func answerAttributes(answer usecase.Answer) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("nlquery.invocation_id", answer.InvocationID),
		attribute.String("nlquery.state", string(answer.State)),
		attribute.Int("nlquery.row_count", answer.RowCount),
		attribute.Bool("nlquery.truncated", answer.Truncated),
	}
	if answer.FailedStage != "" {
		attrs = append(attrs, attribute.String("nlquery.failed_stage", string(answer.FailedStage)))
	}
	return attrs
}

func batchAttributes(results []usecase.BatchAnswer) []attribute.KeyValue {
	failed := 0
	for _, item := range results {
		if item.Err != nil {
			failed++
		}
	}
	return []attribute.KeyValue{
		attribute.Int("nlquery.batch_size", len(results)),
		attribute.Int("nlquery.batch_failed", failed),
	}
}

func playerAttributes(playerID int64) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.Int64("player.id", playerID)}
}

// recordSpanError marks the span failed with the reason the client sees.
func recordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	mapped := mapError(err)
	span.SetAttributes(
		attribute.String("error.reason", mapped.Reason),
		attribute.Int("http.response.status_code", mapped.HTTPStatus),
	)
	span.SetStatus(codes.Error, mapped.Status)
}
