// Package metrics wraps prometheus/client_golang with the application's
// named metrics: pipeline node durations, cache hit ratio, and webhook
// delivery outcomes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns one prometheus.Registerer and the named metrics every
// package in this repo reports against.
type Registry struct {
	reg *prometheus.Registry

	NodeDuration   *prometheus.HistogramVec
	NodeErrors     *prometheus.CounterVec
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	QueriesTotal   *prometheus.CounterVec
	DeliveryTotal  *prometheus.CounterVec
	DeliveryLag    prometheus.Histogram
	CommitFailures prometheus.Counter
}

// New creates a Registry with all application metrics pre-registered.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		NodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pipeline_node_duration_seconds",
			Help:    "Duration of each pipeline node execution.",
			Buckets: prometheus.DefBuckets,
		}, []string{"node"}),
		NodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_node_errors_total",
			Help: "Count of pipeline node execution errors by node and kind.",
		}, []string{"node", "kind"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Count of cache lookups that returned a stored answer.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Count of cache lookups that found nothing.",
		}),
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "queries_total",
			Help: "Count of completed queries by terminal action.",
		}, []string{"action"}),
		DeliveryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Count of webhook delivery attempts by outcome.",
		}, []string{"outcome"}),
		DeliveryLag: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "webhook_delivery_lag_seconds",
			Help:    "Time between event creation and successful delivery.",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 3600},
		}),
		CommitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ingest_commit_failures_total",
			Help: "Count of staging draft commits that rolled back.",
		}),
	}

	reg.MustRegister(
		r.NodeDuration, r.NodeErrors, r.CacheHits, r.CacheMisses,
		r.QueriesTotal, r.DeliveryTotal, r.DeliveryLag, r.CommitFailures,
	)
	return r
}

// ObserveNode records one node's execution duration and, if err is non-nil,
// bumps the error counter under the given kind.
func (r *Registry) ObserveNode(node string, d time.Duration, err error, kind string) {
	r.NodeDuration.WithLabelValues(node).Observe(d.Seconds())
	if err != nil {
		r.NodeErrors.WithLabelValues(node, kind).Inc()
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
