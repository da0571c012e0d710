package summarize

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCallStatsSnapshotPercentiles(t *testing.T) {
	stats := NewCallStats(time.Hour)
	for _, ms := range []int{300, 100, 500, 200, 400} {
		stats.Observe(time.Duration(ms)*time.Millisecond, nil)
	}

	snap := stats.Snapshot()
	if snap.Calls != 5 {
		t.Fatalf("expected calls=5, got %d", snap.Calls)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestCallStatsPrunesExpiredSamples(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	stats := NewCallStats(time.Minute)
	stats.now = func() time.Time { return now }

	stats.Observe(100*time.Millisecond, nil)
	now = now.Add(2 * time.Minute)

	if snap := stats.Snapshot(); snap.Calls != 0 {
		t.Fatalf("expected calls=0 after prune, got %d", snap.Calls)
	}

	stats.Observe(200*time.Millisecond, nil)
	snap := stats.Snapshot()
	if snap.Calls != 1 {
		t.Fatalf("expected calls=1 for fresh sample, got %d", snap.Calls)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestCallStatsCountsFailuresAndClamps(t *testing.T) {
	stats := NewCallStats(time.Hour)
	stats.Observe(-10*time.Millisecond, errors.New("boom"))
	stats.Observe(5*time.Millisecond, nil)

	snap := stats.Snapshot()
	if snap.Calls != 2 || snap.Failed != 1 {
		t.Fatalf("expected calls=2 failed=1, got calls=%d failed=%d", snap.Calls, snap.Failed)
	}
	if snap.MinMs != 0 {
		t.Fatalf("expected clamped duration=0, got %d", snap.MinMs)
	}
}

func TestCallStatsEmptySnapshot(t *testing.T) {
	if snap := NewCallStats(0).Snapshot(); snap != (StatsSnapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

type stubBackend struct {
	out string
	err error
}

func (s stubBackend) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	return s.out, s.err
}
func (s stubBackend) Model() string { return "stub" }
func (s stubBackend) Close()        {}

func TestInstrumentedRecordsCalls(t *testing.T) {
	stats := NewCallStats(time.Hour)
	ok := NewInstrumented(stubBackend{out: "short"}, stats)
	bad := NewInstrumented(stubBackend{err: errors.New("down")}, stats)

	if out, err := ok.Summarize(context.Background(), "text", Options{}); err != nil || out != "short" {
		t.Fatalf("unexpected result %q, %v", out, err)
	}
	if _, err := bad.Summarize(context.Background(), "text", Options{}); err == nil {
		t.Fatal("expected error to pass through")
	}
	if ok.Model() != "stub" {
		t.Errorf("expected embedded Model(), got %q", ok.Model())
	}

	snap := stats.Snapshot()
	if snap.Calls != 2 || snap.Failed != 1 {
		t.Fatalf("expected calls=2 failed=1, got calls=%d failed=%d", snap.Calls, snap.Failed)
	}
}
