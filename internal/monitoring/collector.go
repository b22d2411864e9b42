package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// MetricsSnapshot holds the activity observed since the previous collection.
type MetricsSnapshot struct {
	Requests     int64   `json:"requests"`
	Failures     int64   `json:"failures"`
	AuthFailures int64   `json:"auth_failures"`
	FailRate     float64 `json:"fail_rate"`

	AnalysesOK     int64 `json:"analyses_ok"`
	AnalysesStale  int64 `json:"analyses_stale"`
	AnalysesFailed int64 `json:"analyses_failed"`
	HistoryRecords int64 `json:"history_records"`

	WindowStart time.Time `json:"window_start"`
	CollectedAt time.Time `json:"collected_at"`
}

// Collector turns a Recorder's cumulative totals into per-window snapshots.
type Collector struct {
	recorder *Recorder
	now      func() time.Time

	mu     sync.Mutex
	last   Totals
	lastAt time.Time
}

// NewCollector creates a collector over rec.
func NewCollector(rec *Recorder) *Collector {
	return &Collector{recorder: rec, now: time.Now, lastAt: time.Now().UTC()}
}

// Collect returns the delta since the previous call, or since construction
// on the first call.
func (c *Collector) Collect(ctx context.Context) (*MetricsSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "monitoring: collect")
	}
	if c.recorder == nil {
		return nil, eris.New("monitoring: collector has no recorder")
	}

	cur := c.recorder.Totals()
	now := c.now().UTC()

	c.mu.Lock()
	prev, start := c.last, c.lastAt
	c.last, c.lastAt = cur, now
	c.mu.Unlock()

	snap := &MetricsSnapshot{
		Requests:       cur.Requests - prev.Requests,
		Failures:       cur.Failures - prev.Failures,
		AuthFailures:   cur.AuthFailures - prev.AuthFailures,
		AnalysesOK:     cur.AnalysesOK - prev.AnalysesOK,
		AnalysesStale:  cur.AnalysesStale - prev.AnalysesStale,
		AnalysesFailed: cur.AnalysesFailed - prev.AnalysesFailed,
		HistoryRecords: cur.HistoryRecords - prev.HistoryRecords,
		WindowStart:    start,
		CollectedAt:    now,
	}
	if snap.Requests > 0 {
		snap.FailRate = float64(snap.Failures) / float64(snap.Requests)
	}
	return snap, nil
}
