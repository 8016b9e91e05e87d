package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "formulary"

// Fetch outcomes recorded per endpoint.
const (
	OutcomeReady      = "ready"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
)

var (
	registry = prometheus.NewRegistry()

	fetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fetch",
		Name:      "total",
		Help:      "Entity fetches by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "fetch",
		Name:      "duration_seconds",
		Help:      "Latency of entity fetches that reached the network.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	linkTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "link",
		Name:      "total",
		Help:      "Link-formulas writes by result.",
	}, []string{"result"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		fetchTotal,
		fetchDuration,
		linkTotal,
	)
}

// ObserveFetch records the outcome of one fetch unit activation.
func ObserveFetch(endpoint, outcome string) {
	fetchTotal.WithLabelValues(endpoint, outcome).Inc()
}

// ObserveFetchDuration records how long a network read took.
func ObserveFetchDuration(endpoint string, d time.Duration) {
	fetchDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveLink records the result of a link-formulas write.
func ObserveLink(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	linkTotal.WithLabelValues(result).Inc()
}

// FetchCount returns the current counter value, for tests and diagnostics.
func FetchCount(endpoint, outcome string) prometheus.Counter {
	return fetchTotal.WithLabelValues(endpoint, outcome)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
