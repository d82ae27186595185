package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studycircle_submissions_total",
		Help: "Total number of completed draft submissions",
	})

	agentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studycircle_agent_requests_total",
			Help: "Total number of agent invocations by agent and status",
		},
		[]string{"agent", "status"},
	)

	agentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studycircle_agent_request_duration_seconds",
			Help:    "Duration of agent invocations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"agent"},
	)

	diagramFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studycircle_diagram_fallbacks_total",
		Help: "Total number of times generated diagram source was replaced by a fallback",
	})
)

// IncSubmission records one completed fan-out.
func IncSubmission() {
	submissionsTotal.Inc()
}

// ObserveAgentRequest records one agent invocation.
func ObserveAgentRequest(agent string, success bool, d time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	agentRequestsTotal.WithLabelValues(agent, status).Inc()
	agentDuration.WithLabelValues(agent).Observe(d.Seconds())
}

// IncDiagramFallback records one repair that substituted fallback content.
func IncDiagramFallback() {
	diagramFallbacksTotal.Inc()
}
