package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Simulation metrics
	RunsStarted     prometheus.Counter
	RunsSucceeded   prometheus.Counter
	RunsFailed      prometheus.Counter
	RunDuration     prometheus.Histogram
	MonthsSimulated prometheus.Counter

	// Scenario metrics
	ScenariosCreated   prometheus.Counter
	ScenarioOperations *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Simulation metrics
		RunsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "retirecast_runs_started_total",
			Help: "Total number of simulation runs started",
		}),
		RunsSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "retirecast_runs_succeeded_total",
			Help: "Total number of simulation runs that finished successfully",
		}),
		RunsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "retirecast_runs_failed_total",
			Help: "Total number of simulation runs that finished with an error",
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "retirecast_run_duration_seconds",
			Help:    "Duration of simulation runs",
			Buckets: prometheus.DefBuckets,
		}),
		MonthsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "retirecast_months_simulated_total",
			Help: "Total number of plan months simulated across all runs",
		}),

		// Scenario metrics
		ScenariosCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "retirecast_scenarios_created_total",
			Help: "Total number of scenarios created",
		}),
		ScenarioOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retirecast_scenario_operations_total",
				Help: "Total scenario operations by type",
			},
			[]string{"operation"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retirecast_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retirecast_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retirecast_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retirecast_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retirecast_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retirecast_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retirecast_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}
