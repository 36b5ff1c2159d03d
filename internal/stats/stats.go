// Package stats keeps rolling-window latency figures for render calls.
package stats

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	at time.Time
	us int64
}

// Snapshot aggregates the samples currently inside the window. Latencies are
// in microseconds; rendering is much faster than a millisecond.
type Snapshot struct {
	Count  int            `json:"count"`
	MinUs  int64          `json:"min_us"`
	MaxUs  int64          `json:"max_us"`
	AvgUs  float64        `json:"avg_us"`
	P50Us  float64        `json:"p50_us"`
	P95Us  float64        `json:"p95_us"`
	P99Us  float64        `json:"p99_us"`
	ByKind map[string]int `json:"by_kind,omitempty"`
}

// Latency tracks recent render latencies, tagged with the kind of node
// produced.
type Latency struct {
	mu      sync.Mutex
	samples []sample
	kinds   []string
	maxAge  time.Duration
	now     func() time.Time
}

func NewLatency(maxAge time.Duration) *Latency {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Latency{
		samples: make([]sample, 0, 256),
		kinds:   make([]string, 0, 256),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Record adds one render that took d and produced a node of the given kind.
func (l *Latency) Record(kind string, d time.Duration) {
	us := d.Microseconds()
	if us < 0 {
		us = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)
	l.samples = append(l.samples, sample{at: now, us: us})
	l.kinds = append(l.kinds, kind)
}

func (l *Latency) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(l.now())
	if len(l.samples) == 0 {
		return Snapshot{}
	}

	values := make([]int64, 0, len(l.samples))
	byKind := make(map[string]int)
	var sum int64
	for i, s := range l.samples {
		values = append(values, s.us)
		sum += s.us
		byKind[l.kinds[i]]++
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return Snapshot{
		Count:  len(values),
		MinUs:  values[0],
		MaxUs:  values[len(values)-1],
		AvgUs:  float64(sum) / float64(len(values)),
		P50Us:  percentile(values, 50),
		P95Us:  percentile(values, 95),
		P99Us:  percentile(values, 99),
		ByKind: byKind,
	}
}

// pruneLocked drops samples older than the window. Samples are appended in
// time order, so the survivors are a suffix.
func (l *Latency) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.maxAge)
	drop := sort.Search(len(l.samples), func(i int) bool {
		return !l.samples[i].at.Before(cutoff)
	})
	if drop == 0 {
		return
	}
	l.samples = append(l.samples[:0], l.samples[drop:]...)
	l.kinds = append(l.kinds[:0], l.kinds[drop:]...)
}

func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo := float64(sorted[lower])
	hi := float64(sorted[upper])
	return lo + ((hi - lo) * weight)
}
