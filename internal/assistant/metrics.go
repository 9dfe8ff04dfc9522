package assistant

import (
	"sync/atomic"
	"time"
)

// Metrics tracks gateway call counters.
type Metrics struct {
	calls       int64
	errors      int64
	rateLimited int64
	latencyNs   int64
}

// Stats is a point-in-time copy of Metrics.
type Stats struct {
	Calls        int64   `json:"calls"`
	Errors       int64   `json:"errors"`
	RateLimited  int64   `json:"rate_limited"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	ErrorRate    float64 `json:"error_rate_pct"`
}

func (m *Metrics) record(duration time.Duration, err error) {
	atomic.AddInt64(&m.calls, 1)
	atomic.AddInt64(&m.latencyNs, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&m.errors, 1)
	}
}

func (m *Metrics) recordRateLimited() {
	atomic.AddInt64(&m.rateLimited, 1)
}

func (m *Metrics) Snapshot() Stats {
	s := Stats{
		Calls:       atomic.LoadInt64(&m.calls),
		Errors:      atomic.LoadInt64(&m.errors),
		RateLimited: atomic.LoadInt64(&m.rateLimited),
	}
	if s.Calls > 0 {
		s.AvgLatencyMs = float64(atomic.LoadInt64(&m.latencyNs)) / float64(s.Calls) / 1e6
		s.ErrorRate = float64(s.Errors) / float64(s.Calls) * 100
	}
	return s
}
