package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Snapshot metrics
	SnapshotReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routeflow_snapshot_reloads_total",
		Help: "Total number of liquidity snapshot reloads published",
	})

	SnapshotReloadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routeflow_snapshot_reload_failures_total",
		Help: "Total number of reloads where zero sources succeeded",
	})

	SourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routeflow_source_failures_total",
			Help: "Total number of per-source fetch failures during reload",
		},
		[]string{"source"},
	)

	SnapshotVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "routeflow_snapshot_version",
		Help: "Version of the currently active liquidity snapshot",
	})

	PoolCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "routeflow_pool_count",
			Help: "Number of pools in the active snapshot",
		},
		[]string{"chain"},
	)

	// Plan metrics
	PlanRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routeflow_plan_requests_total",
			Help: "Total number of route planning requests",
		},
		[]string{"side", "status"},
	)

	PlanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routeflow_plan_duration_seconds",
			Help:    "Route planning duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"side"},
	)

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routeflow_search_duration_seconds",
		Help:    "Candidate path search duration in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	PricingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routeflow_pricing_duration_seconds",
		Help:    "Candidate pricing duration in seconds",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	CandidatesFound = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routeflow_candidates_found",
		Help:    "Number of candidate paths discovered per request",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
	})

	CandidatesPriced = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routeflow_candidates_priced",
		Help:    "Number of candidates that survived pricing per request",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
	})

	PartialResults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routeflow_partial_results_total",
		Help: "Total number of plans returned partial due to the deadline",
	})

	PriceImpact = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routeflow_price_impact_bps",
			Help:    "Best-route price impact in basis points",
			Buckets: []float64{0, 10, 50, 100, 300, 500, 1000, 1500},
		},
		[]string{"severity"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routeflow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routeflow_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
