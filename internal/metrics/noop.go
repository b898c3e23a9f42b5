package metrics

// NoopRecorder discards all metric events.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (*NoopRecorder) IncTokenIssued()              {}
func (*NoopRecorder) IncAuthRejected()             {}
func (*NoopRecorder) IncQueryCreated()             {}
func (*NoopRecorder) IncQueryUpdated()             {}
func (*NoopRecorder) IncQueryDeleted()             {}
func (*NoopRecorder) IncQueryCacheHit()            {}
func (*NoopRecorder) IncQueryCacheMiss()           {}
func (*NoopRecorder) IncRecommendationCreated()    {}
func (*NoopRecorder) IncRecommendationDeleted()    {}
func (*NoopRecorder) IncCounterAdjusted(int64)     {}
