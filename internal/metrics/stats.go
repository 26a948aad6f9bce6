package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	rerrors "github.com/iaros/repricer-engine/internal/errors"
)

// Snapshot is a plain-JSON-friendly running tally of pipeline outcomes,
// surfaced by the webhook server's /stats endpoint alongside the
// Prometheus exposition at /stats/metrics, grounded on
// reference-runtime-v1/internal/health/service.go's atomic counters.
type Snapshot struct {
	totalProcessed int64
	successful     int64
	failed         int64
	totalMicros    int64

	mu        sync.RWMutex
	lastReset time.Time
}

func NewSnapshot() *Snapshot {
	return &Snapshot{lastReset: time.Now()}
}

// Record folds one pipeline run into the running counters. successful is
// true for a priced or deliberately-skipped outcome; only an errored
// outcome counts as failed.
func (s *Snapshot) Record(successful bool, duration time.Duration) {
	atomic.AddInt64(&s.totalProcessed, 1)
	if successful {
		atomic.AddInt64(&s.successful, 1)
	} else {
		atomic.AddInt64(&s.failed, 1)
	}
	atomic.AddInt64(&s.totalMicros, duration.Microseconds())
}

// Reset zeroes the running counters and stamps LastReset, called when an
// operator explicitly clears accumulated stats.
func (s *Snapshot) Reset() {
	atomic.StoreInt64(&s.totalProcessed, 0)
	atomic.StoreInt64(&s.successful, 0)
	atomic.StoreInt64(&s.failed, 0)
	atomic.StoreInt64(&s.totalMicros, 0)
	s.mu.Lock()
	s.lastReset = time.Now()
	s.mu.Unlock()
}

// View is the read-only snapshot rendered into /stats's JSON body.
type View struct {
	TotalProcessed          int64
	Successful               int64
	Failed                   int64
	AverageProcessingTimeMS float64
	LastReset                time.Time
}

func (s *Snapshot) View() View {
	total := atomic.LoadInt64(&s.totalProcessed)
	micros := atomic.LoadInt64(&s.totalMicros)
	avg := 0.0
	if total > 0 {
		avg = float64(micros) / float64(total) / 1000.0
	}
	s.mu.RLock()
	lastReset := s.lastReset
	s.mu.RUnlock()
	return View{
		TotalProcessed:          total,
		Successful:              atomic.LoadInt64(&s.successful),
		Failed:                  atomic.LoadInt64(&s.failed),
		AverageProcessingTimeMS: avg,
		LastReset:               lastReset,
	}
}

// process is the package-level Snapshot backing /stats; every Pipeline in
// the process shares it, the same way the Prometheus collectors above are
// package-level singletons.
var process = NewSnapshot()

// RecordOutcome folds a pipeline Outcome into the shared process Snapshot.
func RecordOutcome(o rerrors.Outcome, duration time.Duration) {
	process.Record(!o.IsErrored(), duration)
}

// StatsSnapshot returns the current /stats view.
func StatsSnapshot() View {
	return process.View()
}

// ResetStats clears the shared process Snapshot.
func ResetStats() {
	process.Reset()
}
