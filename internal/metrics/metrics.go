// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncTokenIssued()
	IncAuthRejected()

	// Query metrics
	IncQueryCreated()
	IncQueryUpdated()
	IncQueryDeleted()
	IncQueryCacheHit()
	IncQueryCacheMiss()

	// Recommendation metrics
	IncRecommendationCreated()
	IncRecommendationDeleted()
	IncCounterAdjusted(delta int64)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
