package httpapi

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	"github.com/riskibarqy/football-stats/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.AskQuestion", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func attributeMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestAnswerAttributes(t *testing.T) {
	done := attributeMap(answerAttributes(usecase.Answer{
		InvocationID: "inv-1",
		State:        nlquery.StateDone,
		RowCount:     3,
		Truncated:    true,
	}))
	if done["nlquery.invocation_id"].AsString() != "inv-1" || done["nlquery.state"].AsString() != "done" {
		t.Fatalf("unexpected attributes: %v", done)
	}
	if done["nlquery.row_count"].AsInt64() != 3 || !done["nlquery.truncated"].AsBool() {
		t.Fatalf("unexpected row attributes: %v", done)
	}
	if _, ok := done["nlquery.failed_stage"]; ok {
		t.Fatalf("failed_stage must be absent on success")
	}

	failed := attributeMap(answerAttributes(usecase.Answer{State: nlquery.StateFailed, FailedStage: nlquery.StageExecution}))
	if failed["nlquery.failed_stage"].AsString() != string(nlquery.StageExecution) {
		t.Fatalf("expected failed stage attribute, got %v", failed)
	}
}

func TestBatchAttributes(t *testing.T) {
	attrs := attributeMap(batchAttributes([]usecase.BatchAnswer{
		{Answer: usecase.Answer{InvocationID: "a"}},
		{Err: errors.New("boom")},
		{Err: errors.New("boom")},
	}))
	if attrs["nlquery.batch_size"].AsInt64() != 3 || attrs["nlquery.batch_failed"].AsInt64() != 2 {
		t.Fatalf("unexpected batch attributes: %v", attrs)
	}
}

func TestRecordSpanError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	_, span := provider.Tracer("test").Start(context.Background(), "httpapi.Handler.GetPlayerInfo")
	recordSpanError(span, nil)
	recordSpanError(span, usecase.ErrNotFound)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected one span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error || ended[0].Status().Description != "NOT_FOUND" {
		t.Fatalf("unexpected status: %+v", ended[0].Status())
	}
	attrs := attributeMap(ended[0].Attributes())
	if attrs["error.reason"].AsString() != "notFound" || attrs["http.response.status_code"].AsInt64() != 404 {
		t.Fatalf("unexpected attributes: %v", attrs)
	}
}
