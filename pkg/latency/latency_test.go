package latency

import (
	"testing"
	"time"
)

func TestSnapshotEmpty(t *testing.T) {
	s := New(10)

	snapshot := s.Snapshot()
	if snapshot.SampleCount != 0 {
		t.Errorf("expected empty snapshot, got %d samples", snapshot.SampleCount)
	}

	if snapshot.AvgMs != 0 || snapshot.P50Ms != 0 || snapshot.P95Ms != 0 {
		t.Errorf("expected zero stats on empty window, got %+v", snapshot)
	}
}

func TestSnapshotAverageAndPercentiles(t *testing.T) {
	s := New(10)

	for _, ms := range []int{100, 200, 300, 400} {
		s.Record(time.Duration(ms) * time.Millisecond)
	}

	snapshot := s.Snapshot()
	if snapshot.SampleCount != 4 {
		t.Fatalf("expected 4 samples, got %d", snapshot.SampleCount)
	}

	if snapshot.AvgMs != 250 {
		t.Errorf("expected avg 250ms, got %.2f", snapshot.AvgMs)
	}

	if snapshot.P50Ms != 300 {
		t.Errorf("expected p50 300ms, got %.2f", snapshot.P50Ms)
	}

	if snapshot.P95Ms != 400 {
		t.Errorf("expected p95 400ms, got %.2f", snapshot.P95Ms)
	}
}

func TestWindowEvictsOldest(t *testing.T) {
	s := New(3)

	s.Record(1000 * time.Millisecond)
	s.Record(10 * time.Millisecond)
	s.Record(20 * time.Millisecond)

	// Fourth sample evicts the 1000ms outlier.
	s.Record(30 * time.Millisecond)

	snapshot := s.Snapshot()
	if snapshot.SampleCount != 3 {
		t.Fatalf("expected window capped at 3, got %d", snapshot.SampleCount)
	}

	if snapshot.AvgMs != 20 {
		t.Errorf("expected avg 20ms after eviction, got %.2f", snapshot.AvgMs)
	}
}

func TestNonPositiveWindowFallsBackToDefault(t *testing.T) {
	s := New(0)

	for i := 0; i < DefaultWindowSize+5; i++ {
		s.Record(time.Millisecond)
	}

	if got := s.Snapshot().SampleCount; got != DefaultWindowSize {
		t.Errorf("expected window of %d, got %d", DefaultWindowSize, got)
	}
}
