package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Labels to use for partitioning dispatched requests.
	requestLabels = []string{"method", "status"}

	// Labels to use for partitioning request latencies.
	requestLatencyLabels = []string{"method"}
)

// ClientMetrics is Prometheus instrumentation for the requests a
// connection dispatches. A connection picks it up through its
// properties; when absent no instrumentation happens
type ClientMetrics struct {
	// Counts of requests dispatched through the connection.
	Requests *prometheus.CounterVec

	// Latencies of the dispatched requests.
	RequestLatencies *prometheus.SummaryVec
}

// NewClientMetrics creates Prometheus metric instrumentation for a
// connection. Metrics are registered on the provided registerer;
// passing nil registers on the default prometheus registry
func NewClientMetrics(name string, registerer prometheus.Registerer) *ClientMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	metrics := &ClientMetrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%s_requests", name),
				Help: "How many requests were dispatched, partitioned by method and response status.",
			},
			requestLabels,
		),
		RequestLatencies: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: fmt.Sprintf("%s_request_durations", name),
				Help: "How long dispatched requests take to complete, partitioned by method.",
			},
			requestLatencyLabels,
		),
	}
	registerer.MustRegister(metrics.Requests)
	registerer.MustRegister(metrics.RequestLatencies)
	return metrics
}

// RequestCounter returns the counter for a dispatch with the
// provided method and response status
func (m *ClientMetrics) RequestCounter(method string, status string) prometheus.Counter {
	return m.Requests.WithLabelValues(method, status)
}

// RequestTimer creates a new latency timer for a dispatch with the
// provided method
func (m *ClientMetrics) RequestTimer(method string) *prometheus.Timer {
	return prometheus.NewTimer(m.RequestLatencies.WithLabelValues(method))
}
