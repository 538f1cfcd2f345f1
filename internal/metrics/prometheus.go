package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion and caching service

var (
	// Feed API metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "euroleague_api_calls_total",
			Help: "Total number of Euroleague feed API calls",
		},
		[]string{"endpoint", "status"},
	)

	// Pipeline metrics
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "euroleague_pipeline_runs_total",
			Help: "Total number of ingestion pipeline runs",
		},
		[]string{"pipeline", "status"},
	)

	PipelineRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "euroleague_pipeline_run_duration_seconds",
			Help:    "Duration of ingestion pipeline runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"pipeline"},
	)

	PipelineRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "euroleague_pipeline_records_total",
			Help: "Records handled by ingestion pipelines",
		},
		[]string{"pipeline", "outcome"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "euroleague_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"tier"},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "euroleague_cache_misses_total",
			Help: "Total number of cache misses across all tiers",
		},
	)

	CacheFillDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "euroleague_cache_fill_duration_seconds",
			Help:    "Duration of season cache refills in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	// Database metrics
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "euroleague_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "euroleague_db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "euroleague_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "euroleague_last_successful_refresh_timestamp",
			Help: "Timestamp of the last fully successful ingestion sequence",
		},
	)
)

// RecordAPICall records a feed API call metric
func RecordAPICall(endpoint, status string) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordPipelineRun records a completed pipeline run
func RecordPipelineRun(pipeline, status string, duration float64) {
	PipelineRunsTotal.WithLabelValues(pipeline, status).Inc()
	PipelineRunDuration.WithLabelValues(pipeline).Observe(duration)
}

// RecordPipelineRecords adds per-record outcome counts for a run
func RecordPipelineRecords(pipeline string, inserted, updated, errors int) {
	PipelineRecordsTotal.WithLabelValues(pipeline, "inserted").Add(float64(inserted))
	PipelineRecordsTotal.WithLabelValues(pipeline, "updated").Add(float64(updated))
	PipelineRecordsTotal.WithLabelValues(pipeline, "error").Add(float64(errors))
}

// RecordCacheHit records a cache hit on the given tier
func RecordCacheHit(tier string) {
	CacheHitsTotal.WithLabelValues(tier).Inc()
}

// RecordCacheMiss records a full cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(active, idle int32) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
