// Package telemetry aggregates per-operation counters and timings and
// publishes them through expvar for process-local inspection.
package telemetry

import (
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var recorderSeq uint64

// Recorder tracks how often each operation ran, how it ended, and the total
// time spent in it. Totals are milliseconds per operation.
type Recorder struct {
	name      string
	mu        sync.Mutex
	durations map[string]float64
	results   map[string]map[string]int64
}

// Snapshot is a read-only copy of the recorded metrics.
type Snapshot struct {
	DurationsMS map[string]float64          `json:"durations_ms_total"`
	Results     map[string]map[string]int64 `json:"results_total"`
	RecordedAt  time.Time                   `json:"recorded_at"`
}

// NewRecorder constructs a recorder and publishes it under the supplied
// expvar name. When name is empty, a unique identifier is generated.
func NewRecorder(name string) *Recorder {
	if name == "" {
		id := atomic.AddUint64(&recorderSeq, 1)
		name = fmt.Sprintf("buildplan_metrics_%d", id)
	}
	rec := &Recorder{
		name:      name,
		durations: make(map[string]float64),
		results:   make(map[string]map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *Recorder) Name() string {
	return r.name
}

// Observe records one operation outcome. Empty operation names are dropped.
func (r *Recorder) Observe(operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	ms := float64(duration) / float64(time.Millisecond)
	status := "error"
	if success {
		status = "success"
	}

	r.mu.Lock()
	r.durations[operation] += ms
	if _, ok := r.results[operation]; !ok {
		r.results[operation] = make(map[string]int64, 2)
	}
	r.results[operation][status]++
	r.mu.Unlock()
}

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	durations := make(map[string]float64, len(r.durations))
	for op, total := range r.durations {
		durations[op] = total
	}

	results := make(map[string]map[string]int64, len(r.results))
	for op, statusCounts := range r.results {
		cpy := make(map[string]int64, len(statusCounts))
		for status, count := range statusCounts {
			cpy[status] = count
		}
		results[op] = cpy
	}

	return Snapshot{
		DurationsMS: durations,
		Results:     results,
		RecordedAt:  time.Now().UTC(),
	}
}
