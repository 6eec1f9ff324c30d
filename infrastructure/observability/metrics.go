package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Bus metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Graph metrics
	GraphNodes prometheus.Gauge
	GraphEdges prometheus.Gauge
	Entities   prometheus.Gauge

	// Business metrics
	Upvotes prometheus.Counter

	// Introspection cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewCollector creates a collector with its own registry, so several can
// coexist in one process.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bus_operations_total",
				Help:      "Query and command bus operations by outcome",
			},
			[]string{"metric", "type"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "bus_operation_duration_seconds",
				Help:      "Query and command handling duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"metric", "type"},
		),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schema_graph_nodes",
			Help:      "Nodes in the most recently built schema graph",
		}),
		GraphEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schema_graph_edges",
			Help:      "Edges in the most recently built schema graph",
		}),
		Entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entity_cache_records",
			Help:      "Records in the entity cache after filtering",
		}),
		Upvotes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_upvotes_total",
			Help:      "Total number of successful upvotes",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "introspection_cache_hits_total",
			Help:      "Total number of introspection cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "introspection_cache_misses_total",
			Help:      "Total number of introspection cache misses",
		}),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Operations,
		c.OperationDuration,
		c.GraphNodes,
		c.GraphEdges,
		c.Entities,
		c.Upvotes,
		c.CacheHits,
		c.CacheMisses,
	)

	return c
}

// Increment bumps a bus counter, e.g. ("query_errors", "GetSchemaGraphQuery")
func (c *Collector) Increment(metric, label string) {
	c.Operations.WithLabelValues(metric, label).Inc()
}

// StartTimer starts timing a bus operation; Stop records the duration
func (c *Collector) StartTimer(metric, label string) Timer {
	return &timer{
		observer: c.OperationDuration.WithLabelValues(metric, label),
		start:    time.Now(),
	}
}

// RecordGraph records the size of a built graph
func (c *Collector) RecordGraph(nodes, edges, entities int) {
	c.GraphNodes.Set(float64(nodes))
	c.GraphEdges.Set(float64(edges))
	c.Entities.Set(float64(entities))
}

// RecordCacheLookup counts an introspection cache hit or miss
func (c *Collector) RecordCacheLookup(hit bool) {
	if hit {
		c.CacheHits.Inc()
		return
	}
	c.CacheMisses.Inc()
}

// RecordUpvote counts a successful upvote
func (c *Collector) RecordUpvote() {
	c.Upvotes.Inc()
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route, status string, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Handler exposes the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Timer measures one operation
type Timer = interface {
	Stop()
}

type timer struct {
	observer prometheus.Observer
	start    time.Time
}

func (t *timer) Stop() {
	t.observer.Observe(time.Since(t.start).Seconds())
}
