package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "football_stats_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "football_stats_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	pipelineStageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "football_stats_pipeline_stage_total",
			Help: "Pipeline stage executions by outcome.",
		},
		[]string{"stage", "outcome"},
	)
	pipelineStageDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "football_stats_pipeline_stage_duration_seconds",
			Help:    "Pipeline stage latency.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"stage"},
	)
	pipelineInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "football_stats_pipeline_invocations_total",
			Help: "Question invocations by terminal state and failed stage.",
		},
		[]string{"state", "failed_stage"},
	)
	pipelineInvocationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "football_stats_pipeline_invocation_duration_seconds",
			Help:    "End-to-end question latency.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 60},
		},
	)
	pipelineTruncationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "football_stats_pipeline_truncations_total",
			Help: "Row sets truncated before formatting.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		pipelineStageTotal,
		pipelineStageDurationSeconds,
		pipelineInvocationsTotal,
		pipelineInvocationDurationSeconds,
		pipelineTruncationsTotal,
	)
}

// ObserveHTTPRequest records one served request. route should be the mux
// pattern, not the raw path.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, code).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
}

// PipelineMetrics exports question pipeline measurements to Prometheus.
type PipelineMetrics struct{}

func NewPipelineMetrics() PipelineMetrics {
	return PipelineMetrics{}
}

func (PipelineMetrics) ObserveStage(stage nlquery.Stage, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	pipelineStageTotal.WithLabelValues(string(stage), outcome).Inc()
	pipelineStageDurationSeconds.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
}

func (PipelineMetrics) ObserveInvocation(state nlquery.State, failed nlquery.Stage, elapsed time.Duration) {
	pipelineInvocationsTotal.WithLabelValues(string(state), string(failed)).Inc()
	pipelineInvocationDurationSeconds.Observe(elapsed.Seconds())
}

func (PipelineMetrics) ObserveTruncation() {
	pipelineTruncationsTotal.Inc()
}
