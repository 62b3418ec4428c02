package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
)

func TestPipelineMetrics_CountsStagesAndInvocations(t *testing.T) {
	metrics := NewPipelineMetrics()

	okBefore := testutil.ToFloat64(pipelineStageTotal.WithLabelValues("synthesis", "ok"))
	errBefore := testutil.ToFloat64(pipelineStageTotal.WithLabelValues("execution", "error"))
	failedBefore := testutil.ToFloat64(pipelineInvocationsTotal.WithLabelValues("failed", "execution"))
	truncBefore := testutil.ToFloat64(pipelineTruncationsTotal)

	metrics.ObserveStage(nlquery.StageSynthesis, 30*time.Millisecond, nil)
	metrics.ObserveStage(nlquery.StageExecution, 5*time.Millisecond, errors.New(`column "salary" does not exist`))
	metrics.ObserveInvocation(nlquery.StateFailed, nlquery.StageExecution, 40*time.Millisecond)
	metrics.ObserveTruncation()

	if got := testutil.ToFloat64(pipelineStageTotal.WithLabelValues("synthesis", "ok")) - okBefore; got != 1 {
		t.Fatalf("synthesis ok delta = %v", got)
	}
	if got := testutil.ToFloat64(pipelineStageTotal.WithLabelValues("execution", "error")) - errBefore; got != 1 {
		t.Fatalf("execution error delta = %v", got)
	}
	if got := testutil.ToFloat64(pipelineInvocationsTotal.WithLabelValues("failed", "execution")) - failedBefore; got != 1 {
		t.Fatalf("failed invocation delta = %v", got)
	}
	if got := testutil.ToFloat64(pipelineTruncationsTotal) - truncBefore; got != 1 {
		t.Fatalf("truncation delta = %v", got)
	}
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodPost, "POST /v1/questions", "422"))
	ObserveHTTPRequest(http.MethodPost, "POST /v1/questions", http.StatusUnprocessableEntity, 12*time.Millisecond)
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodPost, "POST /v1/questions", "422")) - before; got != 1 {
		t.Fatalf("http request delta = %v", got)
	}
}

func TestPprofMuxServesIndex(t *testing.T) {
	rr := httptest.NewRecorder()
	pprofMux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}
