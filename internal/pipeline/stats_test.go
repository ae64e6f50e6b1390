package pipeline

import (
	"testing"
	"time"
)

func TestSegmentStatsSnapshotPercentiles(t *testing.T) {
	stats := NewSegmentStats(time.Hour)
	stats.Record(100, 2)
	stats.Record(200, 4)
	stats.Record(300, 6)
	stats.Record(400, 8)
	stats.Record(500, 10)

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
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
	if snap.AvgChunks != 6 {
		t.Fatalf("expected avg chunks=6, got %f", snap.AvgChunks)
	}
}

func TestSegmentStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewSegmentStats(10 * time.Millisecond)
	stats.Record(100, 1)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200, 1)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestSegmentStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewSegmentStats(time.Hour)
	stats.Record(-10, 0)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestPercentileEdges(t *testing.T) {
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("expected 0 for no values, got %f", got)
	}
	if got := percentile([]int64{7}, 99); got != 7 {
		t.Errorf("expected single value, got %f", got)
	}
}
