package agent

import (
	"sync"
	"time"

	"github.com/gzhole/genguard/internal/score"
)

// Metrics counts request outcomes. All methods are safe for concurrent
// use; reads go through Snapshot.
type Metrics struct {
	mu         sync.Mutex
	total      int
	accepted   int
	rejected   int
	cacheHits  int
	failures   int
	genCalls   int
	genLatency time.Duration
}

// MetricsSnapshot is a point-in-time copy for display.
type MetricsSnapshot struct {
	Total              int
	Accepted           int
	Rejected           int
	CacheHits          int
	Failures           int
	AvgGenerationMilli int64
}

func (m *Metrics) record(verdict score.Verdict, cacheHit bool, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	if cacheHit {
		m.cacheHits++
	} else {
		m.genCalls++
		m.genLatency += elapsed
	}
	if verdict == score.VerdictReject {
		m.rejected++
	} else {
		m.accepted++
	}
}

func (m *Metrics) recordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total++
	m.failures++
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := MetricsSnapshot{
		Total:     m.total,
		Accepted:  m.accepted,
		Rejected:  m.rejected,
		CacheHits: m.cacheHits,
		Failures:  m.failures,
	}
	if m.genCalls > 0 {
		s.AvgGenerationMilli = (m.genLatency / time.Duration(m.genCalls)).Milliseconds()
	}
	return s
}
