package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Quote source metrics
	MoversFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockwatch_movers_fetches_total",
			Help: "Total number of movers fetches by serving source",
		},
		[]string{"source"}, // source: api|cache|store|demo
	)

	UpstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockwatch_upstream_calls_total",
			Help: "Total number of Alpha Vantage API calls",
		},
		[]string{"function", "status"}, // status: success|error|soft_failure
	)

	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockwatch_upstream_latency_seconds",
			Help:    "Alpha Vantage call latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"function"},
	)

	QuotesFiltered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockwatch_quotes_filtered_total",
			Help: "Quotes rejected by the validation filter",
		},
		[]string{"reason"}, // reason: symbol|blacklist|price|volume
	)

	// Watchlist metrics
	WatchlistMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockwatch_watchlist_mutations_total",
			Help: "Total number of watchlist mutations",
		},
		[]string{"operation", "status"}, // operation: create|delete|add_stock|remove_stock
	)

	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockwatch_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockwatch_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"worker"},
	)

	SweptStocks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stockwatch_swept_stocks_total",
			Help: "Stock rows removed by the age sweep",
		},
	)

	// HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockwatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	// Quote source metrics
	prometheus.MustRegister(MoversFetches)
	prometheus.MustRegister(UpstreamCalls)
	prometheus.MustRegister(UpstreamLatency)
	prometheus.MustRegister(QuotesFiltered)

	// Watchlist metrics
	prometheus.MustRegister(WatchlistMutations)

	// Worker metrics
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(SweptStocks)

	// HTTP metrics
	prometheus.MustRegister(HTTPRequests)
}

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
