package telemetry

import (
	"net/http"

	"github.com/Carmen-Shannon/oxy-stage/engine/sequencer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oxy_stage"

// Metrics holds the stage's Prometheus collectors. It implements
// sequencer.Observer so the resolver, batch player and runner can report to it.
type Metrics struct {
	gatherer prometheus.Gatherer

	UnresolvedClips  *prometheus.CounterVec
	BatchesStarted   prometheus.Counter
	BatchesCompleted prometheus.Counter
	ClipsStarted     prometheus.Counter
	SequenceLoops    prometheus.Counter
	Toggles          *prometheus.CounterVec
	Playing          prometheus.Gauge
	FrameSeconds     prometheus.Histogram

	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
}

var _ sequencer.Observer = &Metrics{}

// NewMetrics registers every collector on a fresh registry.
//
// Returns:
//   - *Metrics: the metrics set
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.NewRegistry())
}

// NewMetricsWith registers every collector on reg.
//
// Parameters:
//   - reg: the registry to register on; it also serves Handler
//
// Returns:
//   - *Metrics: the metrics set
func NewMetricsWith(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		UnresolvedClips: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_clips_total",
			Help:      "Configured clip names missing from the loaded asset.",
		}, []string{"clip"}),
		BatchesStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_started_total",
			Help:      "Batches handed to the batch player.",
		}),
		BatchesCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_completed_total",
			Help:      "Batches whose clips and delay have finished.",
		}),
		ClipsStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clips_started_total",
			Help:      "Animation actions started.",
		}),
		SequenceLoops: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sequence_loops_total",
			Help:      "Automatic restarts of the queue.",
		}),
		Toggles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "toggles_total",
			Help:      "Play/pause toggles by resulting state.",
		}, []string{"state"}),
		Playing: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "playing",
			Help:      "1 while playback is active.",
		}),
		FrameSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_seconds",
			Help:      "Wall time between engine ticks.",
			Buckets:   []float64{0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25},
		}),

		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint", "status"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "endpoint", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ClipUnresolved(name string) {
	m.UnresolvedClips.WithLabelValues(name).Inc()
}

func (m *Metrics) BatchStarted(clips int) {
	m.BatchesStarted.Inc()
	m.ClipsStarted.Add(float64(clips))
}

func (m *Metrics) BatchCompleted() {
	m.BatchesCompleted.Inc()
}

func (m *Metrics) SequenceLooped() {
	m.SequenceLoops.Inc()
}

// Toggled records a toggle and the resulting playing state.
func (m *Metrics) Toggled(playing bool) {
	if playing {
		m.Toggles.WithLabelValues("playing").Inc()
		m.Playing.Set(1)
		return
	}
	m.Toggles.WithLabelValues("paused").Inc()
	m.Playing.Set(0)
}
