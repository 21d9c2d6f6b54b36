package kv

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// latencyRecorder collects per operation latencies of one benchmark run
type latencyRecorder struct {
	mu      sync.Mutex
	samples []float64 // nanoseconds
}

// reset drops all samples, testing.Benchmark calls the benchmark several times
// and only the last run should be reported
func (r *latencyRecorder) reset() {
	r.mu.Lock()
	r.samples = r.samples[:0]
	r.mu.Unlock()
}

// add merges the samples of one worker
func (r *latencyRecorder) add(samples []float64) {
	r.mu.Lock()
	r.samples = append(r.samples, samples...)
	r.mu.Unlock()
}

// latencyStats summarizes the latency distribution of a benchmark
type latencyStats struct {
	Samples int
	Mean    time.Duration
	StdDev  time.Duration
	P50     time.Duration
	P99     time.Duration
}

// stats computes the latency summary, it is the zero value if nothing was recorded
func (r *latencyRecorder) stats() latencyStats {
	r.mu.Lock()
	x := make([]float64, len(r.samples))
	copy(x, r.samples)
	r.mu.Unlock()

	if len(x) == 0 {
		return latencyStats{}
	}

	// Quantile requires sorted input
	sort.Float64s(x)

	s := latencyStats{
		Samples: len(x),
		Mean:    time.Duration(stat.Mean(x, nil)),
		P50:     time.Duration(stat.Quantile(0.5, stat.Empirical, x, nil)),
		P99:     time.Duration(stat.Quantile(0.99, stat.Empirical, x, nil)),
	}
	if len(x) > 1 {
		s.StdDev = time.Duration(stat.StdDev(x, nil))
	}
	return s
}
