package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	TokensIssued           uint64
	AuthRejections         uint64
	QueriesCreated         uint64
	QueriesUpdated         uint64
	QueriesDeleted         uint64
	QueryCacheHits         uint64
	QueryCacheMisses       uint64
	RecommendationsCreated uint64
	RecommendationsDeleted uint64
	CounterIncrements      uint64
	CounterDecrements      uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	tokensIssued           uint64
	authRejections         uint64
	queriesCreated         uint64
	queriesUpdated         uint64
	queriesDeleted         uint64
	queryCacheHits         uint64
	queryCacheMisses       uint64
	recommendationsCreated uint64
	recommendationsDeleted uint64
	counterIncrements      uint64
	counterDecrements      uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		TokensIssued:           atomic.LoadUint64(&m.tokensIssued),
		AuthRejections:         atomic.LoadUint64(&m.authRejections),
		QueriesCreated:         atomic.LoadUint64(&m.queriesCreated),
		QueriesUpdated:         atomic.LoadUint64(&m.queriesUpdated),
		QueriesDeleted:         atomic.LoadUint64(&m.queriesDeleted),
		QueryCacheHits:         atomic.LoadUint64(&m.queryCacheHits),
		QueryCacheMisses:       atomic.LoadUint64(&m.queryCacheMisses),
		RecommendationsCreated: atomic.LoadUint64(&m.recommendationsCreated),
		RecommendationsDeleted: atomic.LoadUint64(&m.recommendationsDeleted),
		CounterIncrements:      atomic.LoadUint64(&m.counterIncrements),
		CounterDecrements:      atomic.LoadUint64(&m.counterDecrements),
	}
}

func (m *InMemoryRecorder) IncTokenIssued()           { atomic.AddUint64(&m.tokensIssued, 1) }
func (m *InMemoryRecorder) IncAuthRejected()          { atomic.AddUint64(&m.authRejections, 1) }
func (m *InMemoryRecorder) IncQueryCreated()          { atomic.AddUint64(&m.queriesCreated, 1) }
func (m *InMemoryRecorder) IncQueryUpdated()          { atomic.AddUint64(&m.queriesUpdated, 1) }
func (m *InMemoryRecorder) IncQueryDeleted()          { atomic.AddUint64(&m.queriesDeleted, 1) }
func (m *InMemoryRecorder) IncQueryCacheHit()         { atomic.AddUint64(&m.queryCacheHits, 1) }
func (m *InMemoryRecorder) IncQueryCacheMiss()        { atomic.AddUint64(&m.queryCacheMisses, 1) }
func (m *InMemoryRecorder) IncRecommendationCreated() { atomic.AddUint64(&m.recommendationsCreated, 1) }
func (m *InMemoryRecorder) IncRecommendationDeleted() { atomic.AddUint64(&m.recommendationsDeleted, 1) }

// IncCounterAdjusted records a recommendationCount adjustment by direction.
func (m *InMemoryRecorder) IncCounterAdjusted(delta int64) {
	if delta >= 0 {
		atomic.AddUint64(&m.counterIncrements, 1)
	} else {
		atomic.AddUint64(&m.counterDecrements, 1)
	}
}
