package stats

import (
	"testing"
	"time"
)

func TestLatencySnapshotPercentiles(t *testing.T) {
	l := NewLatency(time.Hour)
	for _, us := range []int64{100, 200, 300, 400, 500} {
		l.Record("number", time.Duration(us)*time.Microsecond)
	}

	snap := l.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinUs != 100 || snap.MaxUs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
	if snap.AvgUs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgUs)
	}
	if snap.P50Us != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Us)
	}
	if snap.P95Us != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Us)
	}
	if snap.P99Us != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Us)
	}
	if snap.ByKind["number"] != 5 {
		t.Fatalf("expected 5 number samples, got %v", snap.ByKind)
	}
}

func TestLatencyPrunesExpiredSamples(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewLatency(10 * time.Second)
	l.now = func() time.Time { return now }

	l.Record("string", 100*time.Microsecond)
	now = now.Add(25 * time.Second)

	if snap := l.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	l.Record("object", 200*time.Microsecond)
	snap := l.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinUs != 200 || snap.MaxUs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
	if snap.ByKind["string"] != 0 || snap.ByKind["object"] != 1 {
		t.Fatalf("expected only the fresh kind to remain, got %v", snap.ByKind)
	}
}

func TestLatencyRecordClampsNegativeDuration(t *testing.T) {
	l := NewLatency(time.Hour)
	l.Record("raw", -10*time.Microsecond)
	snap := l.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinUs != 0 || snap.MaxUs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
}

func TestEmptySnapshot(t *testing.T) {
	if snap := NewLatency(0).Snapshot(); snap.Count != 0 || snap.ByKind != nil {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}
