package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthfinder_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "healthfinder_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"endpoint"},
	)

	// Pipeline metrics
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "healthfinder_pipeline_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	WorkflowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthfinder_workflows_total",
			Help: "Total number of workflow executions",
		},
		[]string{"status"}, // status: success, error
	)

	// Token metrics
	TokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthfinder_tokens_total",
			Help: "Estimated tokens used by completions",
		},
		[]string{"type"}, // type: prompt, completion
	)

	// Search metrics
	SearchFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "healthfinder_search_fallbacks_total",
			Help: "Total number of searches answered by the fallback provider",
		},
	)
)

// RecordRequest records one finished API request.
func RecordRequest(endpoint, status string, duration time.Duration) {
	RequestsTotal.WithLabelValues(endpoint, status).Inc()
	RequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordStage records the duration of one pipeline stage.
func RecordStage(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordWorkflow records a workflow execution outcome.
func RecordWorkflow(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	WorkflowsTotal.WithLabelValues(status).Inc()
}

// RecordTokens records estimated token usage for a completion.
func RecordTokens(promptTokens, completionTokens int) {
	if promptTokens > 0 {
		TokensTotal.WithLabelValues("prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		TokensTotal.WithLabelValues("completion").Add(float64(completionTokens))
	}
}

// RecordSearchFallback records a search served by the fallback provider.
func RecordSearchFallback() {
	SearchFallbacksTotal.Inc()
}

// RegisterQueueGauges exposes live queue depth and worker availability.
// Call once at startup.
func RegisterQueueGauges(queueLength, availableWorkers func() float64) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "healthfinder_queue_length",
		Help: "Number of requests waiting in the queue",
	}, queueLength)

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "healthfinder_available_workers",
		Help: "Number of idle workers in the pool",
	}, availableWorkers)
}
