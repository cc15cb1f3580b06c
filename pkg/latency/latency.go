// Package latency keeps a fixed-size rolling window of action round-trip
// latency samples and exposes average and percentile reads. Samples double
// as user feedback and as an observation feature for training.
package latency

import (
	"sort"
	"sync"
	"time"
)

// DefaultWindowSize is the number of samples retained when none is configured.
const DefaultWindowSize = 100

// Stats is a rolling-window latency sample store. Appends and reads may be
// issued concurrently; reads work on a copied snapshot of the window.
type Stats struct {
	mu      sync.Mutex
	samples []time.Duration
	next    int
	filled  bool
}

// New creates a Stats with the given window size. Non-positive sizes fall
// back to DefaultWindowSize.
func New(windowSize int) *Stats {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	return &Stats{
		samples: make([]time.Duration, windowSize),
	}
}

// Record appends one latency sample, evicting the oldest once the window
// is full.
func (s *Stats) Record(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples[s.next] = d
	s.next++
	if s.next == len(s.samples) {
		s.next = 0
		s.filled = true
	}

	SamplesRecordedTotal.Inc()
	ConfirmationLatencySeconds.Observe(d.Seconds())
}

// Snapshot summarizes the current window.
type Snapshot struct {
	AvgMs       float64 `json:"avg_ms"`
	P50Ms       float64 `json:"p50_ms"`
	P95Ms       float64 `json:"p95_ms"`
	SampleCount int     `json:"sample_count"`
}

// Snapshot computes average, p50, and p95 over the retained samples.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	count := s.next
	if s.filled {
		count = len(s.samples)
	}
	window := make([]time.Duration, count)
	copy(window, s.samples[:count])
	s.mu.Unlock()

	if count == 0 {
		return Snapshot{}
	}

	sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })

	var total time.Duration
	for _, d := range window {
		total += d
	}

	return Snapshot{
		AvgMs:       toMillis(total) / float64(count),
		P50Ms:       toMillis(percentile(window, 0.50)),
		P95Ms:       toMillis(percentile(window, 0.95)),
		SampleCount: count,
	}
}

// percentile uses nearest-rank on an ascending-sorted window.
func percentile(sorted []time.Duration, p float64) time.Duration {
	rank := int(p * float64(len(sorted)))
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}

	return sorted[rank]
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
