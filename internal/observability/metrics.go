package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	cascadeRunsTotal      *prometheus.CounterVec
	levelsGrantedTotal    prometheus.Counter
	badgesGrantedTotal    prometheus.Counter
	criteriaSkippedTotal  prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ludica_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ludica_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ludica_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		cascadeRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ludica_gamification_cascade_runs_total",
			Help: "Total number of gamification cascade executions by trigger.",
		}, []string{"trigger"})

		levelsGrantedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ludica_levels_granted_total",
			Help: "Total number of level assignments written by the cascade.",
		})

		badgesGrantedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ludica_badges_granted_total",
			Help: "Total number of badge awards written by the cascade.",
		})

		criteriaSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ludica_badge_criteria_skipped_total",
			Help: "Total number of badge criteria skipped because they failed to parse.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			cascadeRunsTotal,
			levelsGrantedTotal,
			badgesGrantedTotal,
			criteriaSkippedTotal,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// CascadeRuns exposes the counter for gamification cascade executions.
func CascadeRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return cascadeRunsTotal
}

// LevelsGranted exposes the counter for level assignments.
func LevelsGranted() prometheus.Counter {
	RegisterMetrics()
	return levelsGrantedTotal
}

// BadgesGranted exposes the counter for badge awards.
func BadgesGranted() prometheus.Counter {
	RegisterMetrics()
	return badgesGrantedTotal
}

// CriteriaSkipped exposes the counter for unparseable badge criteria.
func CriteriaSkipped() prometheus.Counter {
	RegisterMetrics()
	return criteriaSkippedTotal
}
