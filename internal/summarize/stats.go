package summarize

import (
	"context"
	"sort"
	"sync"
	"time"
)

type callSample struct {
	at       time.Time
	duration time.Duration
	failed   bool
}

// StatsSnapshot aggregates the backend calls inside the rolling window.
type StatsSnapshot struct {
	Calls  int     `json:"calls"`
	Failed int     `json:"failed"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// CallStats tracks recent backend call latencies within a rolling window.
type CallStats struct {
	mu      sync.Mutex
	samples []callSample
	window  time.Duration
	now     func() time.Time
}

func NewCallStats(window time.Duration) *CallStats {
	if window <= 0 {
		window = time.Hour
	}
	return &CallStats{
		samples: make([]callSample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

// Observe records one call. Negative durations are clamped to zero.
func (s *CallStats) Observe(d time.Duration, err error) {
	if d < 0 {
		d = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, callSample{at: now, duration: d, failed: err != nil})
}

func (s *CallStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	ms := make([]int64, len(s.samples))
	var sum int64
	failed := 0
	for i, sm := range s.samples {
		ms[i] = sm.duration.Milliseconds()
		sum += ms[i]
		if sm.failed {
			failed++
		}
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })

	return StatsSnapshot{
		Calls:  len(ms),
		Failed: failed,
		MinMs:  ms[0],
		MaxMs:  ms[len(ms)-1],
		AvgMs:  float64(sum) / float64(len(ms)),
		P50Ms:  percentile(ms, 50),
		P95Ms:  percentile(ms, 95),
		P99Ms:  percentile(ms, 99),
	}
}

// pruneLocked drops samples older than the window. Samples are appended in
// time order, so the expired ones form a prefix.
func (s *CallStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i := sort.Search(len(s.samples), func(i int) bool {
		return !s.samples[i].at.Before(cutoff)
	})
	if i > 0 {
		s.samples = append(s.samples[:0], s.samples[i:]...)
	}
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}

// Instrumented wraps a Backend and records the latency of every call.
type Instrumented struct {
	Backend
	Stats *CallStats
}

func NewInstrumented(b Backend, stats *CallStats) *Instrumented {
	return &Instrumented{Backend: b, Stats: stats}
}

func (i *Instrumented) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	start := time.Now()
	out, err := i.Backend.Summarize(ctx, text, opts)
	i.Stats.Observe(time.Since(start), err)
	return out, err
}
