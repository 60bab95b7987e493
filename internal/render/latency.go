package render

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// LatencyRecorder tracks embed call durations in an HDR histogram.
// Range: 1 microsecond to 1 minute, 3 significant figures. Safe for
// concurrent use, and shareable across controllers so a server can
// aggregate embed latency process-wide.
type LatencyRecorder struct {
	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

// LatencyStats is a point-in-time summary of the embed latency distribution.
type LatencyStats struct {
	Count int64         `json:"count"`
	P50   time.Duration `json:"p50"`
	P90   time.Duration `json:"p90"`
	P99   time.Duration `json:"p99"`
	Max   time.Duration `json:"max"`
}

// NewLatencyRecorder creates an empty recorder.
func NewLatencyRecorder() *LatencyRecorder {
	return &LatencyRecorder{
		hist: hdrhistogram.New(1, time.Minute.Microseconds(), 3),
	}
}

// Record adds one embed duration.
func (r *LatencyRecorder) Record(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hist.RecordValue(d.Microseconds())
}

// Snapshot summarizes the distribution so far.
func (r *LatencyRecorder) Snapshot() LatencyStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return LatencyStats{
		Count: r.hist.TotalCount(),
		P50:   time.Duration(r.hist.ValueAtQuantile(50)) * time.Microsecond,
		P90:   time.Duration(r.hist.ValueAtQuantile(90)) * time.Microsecond,
		P99:   time.Duration(r.hist.ValueAtQuantile(99)) * time.Microsecond,
		Max:   time.Duration(r.hist.Max()) * time.Microsecond,
	}
}
