package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "platefeed_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "platefeed_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// OracleRequestsTotal counts judgement oracle calls by outcome.
	// Outcomes: "ok", "timeout", "malformed", "error".
	OracleRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "platefeed_oracle_requests_total",
		Help: "Total number of judgement oracle requests by outcome",
	}, []string{"outcome"})

	// OracleRequestLatency records judgement oracle call latency.
	OracleRequestLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "platefeed_oracle_request_latency_seconds",
		Help:    "Judgement oracle request latency in seconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
	})

	// PostsScoredTotal counts posts that completed the scoring pipeline.
	PostsScoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "platefeed_posts_scored_total",
		Help: "Total number of posts scored and persisted, by visibility",
	}, []string{"visibility"})

	// UpvotesTotal counts upvotes applied to posts.
	UpvotesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "platefeed_upvotes_total",
		Help: "Total number of upvotes applied",
	})

	// FeedRequestsTotal counts feed queries by scope and sort method.
	FeedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "platefeed_feed_requests_total",
		Help: "Total number of feed queries by scope and sort method",
	}, []string{"scope", "sort"})
)

// RecordOracleRequest records one oracle call with its outcome and latency.
func RecordOracleRequest(outcome string, start time.Time) {
	OracleRequestsTotal.WithLabelValues(outcome).Inc()
	OracleRequestLatency.Observe(time.Since(start).Seconds())
}

// ObserveQuery records the latency of one database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called. Use
// it as `defer TrackQuery("select", "posts")()` around a repository query.
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}
