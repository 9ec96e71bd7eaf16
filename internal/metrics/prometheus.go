package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes recorded by RecordRequest
const (
	OutcomeSuccess     = "success"
	OutcomeClientError = "client_error"
	OutcomeServerError = "server_error"
)

// Metrics contains all Prometheus metrics for the transcription relay
type Metrics struct {
	registry *prometheus.Registry

	// Relay request metrics
	Requests   *prometheus.CounterVec
	UploadSize prometheus.Histogram

	// Transcription provider metrics
	ProviderRequests prometheus.Counter
	ProviderFailures prometheus.Counter
	ProviderDuration prometheus.Histogram

	// Persistence metrics
	PersistenceSuccesses prometheus.Counter
	PersistenceFailures  prometheus.Counter
}

// NewMetrics creates all relay metrics and registers them on registry.
// Passing nil creates a fresh registry with the Go and process collectors.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_transcribe_requests_total",
			Help: "Total number of transcribe requests by outcome",
		}, []string{"outcome"}),
		UploadSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_upload_size_bytes",
			Help:    "Size of uploaded audio files in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KB .. 256MB
		}),

		ProviderRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_provider_requests_total",
			Help: "Total number of transcription provider calls",
		}),
		ProviderFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_provider_failures_total",
			Help: "Total number of failed transcription provider calls",
		}),
		ProviderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_provider_duration_seconds",
			Help:    "Duration of transcription provider calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),

		PersistenceSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_persistence_successes_total",
			Help: "Total number of transcriptions persisted",
		}),
		PersistenceFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_persistence_failures_total",
			Help: "Total number of transcriptions that failed to persist",
		}),
	}
}

// RecordRequest records the outcome of one transcribe request
func (m *Metrics) RecordRequest(outcome string) {
	m.Requests.WithLabelValues(outcome).Inc()
}

// RecordUpload records the size of an accepted upload
func (m *Metrics) RecordUpload(size int) {
	m.UploadSize.Observe(float64(size))
}

// RecordProviderCall records one provider call and its duration
func (m *Metrics) RecordProviderCall(duration time.Duration, err error) {
	m.ProviderRequests.Inc()
	m.ProviderDuration.Observe(duration.Seconds())
	if err != nil {
		m.ProviderFailures.Inc()
	}
}

// RecordPersistence records the outcome of a best-effort insert
func (m *Metrics) RecordPersistence(err error) {
	if err != nil {
		m.PersistenceFailures.Inc()
		return
	}
	m.PersistenceSuccesses.Inc()
}

// Handler returns the HTTP handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
