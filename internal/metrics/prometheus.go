package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the rating engine

var (
	// Processing metrics
	GamesProcessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfbrank_games_processed_total",
			Help: "Total number of games processed into ratings",
		},
	)

	RatingDeltaMagnitude = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cfbrank_rating_delta_magnitude",
			Help:    "Absolute rating delta applied per processed game",
			Buckets: []float64{1, 2, 5, 10, 20, 40, 80},
		},
	)

	// Prediction metrics
	PredictionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfbrank_predictions_created_total",
			Help: "Total number of predictions created",
		},
	)

	PredictionsEvaluatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbrank_predictions_evaluated_total",
			Help: "Total number of predictions evaluated against results",
		},
		[]string{"outcome"},
	)

	// Snapshot metrics
	SnapshotTeams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfbrank_snapshot_teams",
			Help: "Number of teams in the most recent ranking snapshot",
		},
	)

	SnapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cfbrank_snapshot_duration_seconds",
			Help:    "Duration of ranking snapshot runs in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfbrank_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfbrank_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbrank_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfbrank_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordGameProcessed records a processed game and its delta magnitude
func RecordGameProcessed(homeDelta float64) {
	GamesProcessedTotal.Inc()
	if homeDelta < 0 {
		homeDelta = -homeDelta
	}
	RatingDeltaMagnitude.Observe(homeDelta)
}

// RecordPredictionCreated records a created prediction
func RecordPredictionCreated() {
	PredictionsCreatedTotal.Inc()
}

// RecordPredictionEvaluated records an evaluated prediction by outcome
func RecordPredictionEvaluated(correct bool) {
	outcome := "incorrect"
	if correct {
		outcome = "correct"
	}
	PredictionsEvaluatedTotal.WithLabelValues(outcome).Inc()
}

// RecordSnapshotRun records a snapshot run
func RecordSnapshotRun(teams int, duration float64) {
	SnapshotTeams.Set(float64(teams))
	SnapshotDuration.Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
