// Package monitoring records upstream and analysis activity as prometheus
// metrics and raises webhook alerts when the backend degrades.
package monitoring

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sourcing"

// Analysis outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeStale = "stale"
	OutcomeError = "error"
)

// Totals are the cumulative counts a Recorder has seen since it was created.
type Totals struct {
	Requests       int64
	Failures       int64
	AuthFailures   int64
	AnalysesOK     int64
	AnalysesStale  int64
	AnalysesFailed int64
	HistoryRecords int64
}

// Recorder owns a private prometheus registry. All methods are safe on a nil
// receiver so callers never need to check whether metrics are enabled.
type Recorder struct {
	registry *prometheus.Registry

	upstream *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	analyses *prometheus.CounterVec
	history  prometheus.Counter
	fetches  *prometheus.CounterVec

	requests       atomic.Int64
	failures       atomic.Int64
	authFailures   atomic.Int64
	analysesOK     atomic.Int64
	analysesStale  atomic.Int64
	analysesFailed atomic.Int64
	historyRecords atomic.Int64
}

// NewRecorder creates a Recorder with its metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Backend API requests by operation and status class.",
		}, []string{"op", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Backend API request latency.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"op"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Supplier risk analyses by outcome.",
		}, []string{"outcome"}),
		history: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_records_total",
			Help:      "Analyses recorded into the history list.",
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_fetches_total",
			Help:      "Session cache loads by kind.",
		}, []string{"kind"}),
	}
	r.registry.MustRegister(r.upstream, r.latency, r.analyses, r.history, r.fetches)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveUpstream records one backend call. Status 0 means the request never
// produced a response.
func (r *Recorder) ObserveUpstream(op string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.upstream.WithLabelValues(op, StatusClass(status)).Inc()
	r.latency.WithLabelValues(op).Observe(elapsed.Seconds())

	r.requests.Add(1)
	if status == 0 || status >= http.StatusInternalServerError {
		r.failures.Add(1)
	}
	if status == http.StatusUnauthorized {
		r.authFailures.Add(1)
	}
}

// ObserveAnalysis records the outcome of one analysis request.
func (r *Recorder) ObserveAnalysis(outcome string) {
	if r == nil {
		return
	}
	r.analyses.WithLabelValues(outcome).Inc()
	switch outcome {
	case OutcomeOK:
		r.analysesOK.Add(1)
	case OutcomeStale:
		r.analysesStale.Add(1)
	default:
		r.analysesFailed.Add(1)
	}
}

// ObserveHistoryRecord counts one history write.
func (r *Recorder) ObserveHistoryRecord() {
	if r == nil {
		return
	}
	r.history.Inc()
	r.historyRecords.Add(1)
}

// ObserveFetch counts one cache load of kind.
func (r *Recorder) ObserveFetch(kind string) {
	if r == nil {
		return
	}
	r.fetches.WithLabelValues(kind).Inc()
}

// Totals returns the cumulative counts.
func (r *Recorder) Totals() Totals {
	if r == nil {
		return Totals{}
	}
	return Totals{
		Requests:       r.requests.Load(),
		Failures:       r.failures.Load(),
		AuthFailures:   r.authFailures.Load(),
		AnalysesOK:     r.analysesOK.Load(),
		AnalysesStale:  r.analysesStale.Load(),
		AnalysesFailed: r.analysesFailed.Load(),
		HistoryRecords: r.historyRecords.Load(),
	}
}

// StatusClass buckets an HTTP status for labelling.
func StatusClass(status int) string {
	if status <= 0 {
		return "transport"
	}
	return strconv.Itoa(status/100) + "xx"
}
