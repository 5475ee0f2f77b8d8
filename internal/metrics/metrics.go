package metrics

import "github.com/prometheus/client_golang/prometheus"

// Catalog and search Prometheus metrics.
var (
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "catalog_requests_total",
			Help:      "Total number of remote catalog requests",
		},
		[]string{"endpoint", "status"},
	)

	CatalogRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sieve",
			Name:      "catalog_request_duration_seconds",
			Help:      "Remote catalog request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	CatalogRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "catalog_retries_total",
			Help:      "Total catalog request retries by cause",
		},
		[]string{"endpoint", "reason"}, // reason: "rate_limited" / "transient"
	)

	QueriesExhaustedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "queries_exhausted_total",
			Help:      "Queries abandoned after exhausting their retry budget",
		},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "searches_total",
			Help:      "Total search aggregations by dimension",
		},
		[]string{"kind"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sieve",
			Name:      "search_duration_seconds",
			Help:      "Search aggregation duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"kind"},
	)

	DatasetsFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "datasets_found_total",
			Help:      "Dataset records accumulated before deduplication",
		},
	)

	QueryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "query_cache_total",
			Help:      "Query cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CollectionTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "collection_tasks_total",
			Help:      "Collection tasks processed by outcome",
		},
		[]string{"status"},
	)
)

var registered bool

// Register registers all Prometheus metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(CatalogRequestsTotal)
	prometheus.MustRegister(CatalogRequestDuration)
	prometheus.MustRegister(CatalogRetriesTotal)
	prometheus.MustRegister(QueriesExhaustedTotal)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(DatasetsFoundTotal)
	prometheus.MustRegister(QueryCacheTotal)
	prometheus.MustRegister(CollectionTasksTotal)
	registered = true
}
