package inspect

import (
	"sync"
	"time"

	"github.com/go-drift/perch/pkg/ui"
)

const (
	frameSamplesDefault      = 240
	defaultSlowTickThreshold = 16667 * time.Microsecond
)

// FrameCounts captures per-tick workload indicators.
type FrameCounts struct {
	Touched    int `json:"touched"`
	Created    int `json:"created"`
	Orphans    int `json:"orphans"`
	Spawned    int `json:"spawned"`
	Despawned  int `json:"despawned"`
	Writes     int `json:"writes"`
	Upserted   int `json:"upserted"`
	Measured   int `json:"measured"`
	Relinked   int `json:"relinked"`
	Propagated int `json:"propagated"`
	Skipped    int `json:"skipped"`
}

// FrameSample is one recorded tick.
type FrameSample struct {
	Tick          uint64      `json:"tick"`
	Timestamp     int64       `json:"ts"`
	TickMs        float64     `json:"tickMs"`
	DeclareErrors int         `json:"declareErrors,omitempty"`
	RootSize      SafeSize    `json:"rootSize"`
	Counts        FrameCounts `json:"counts"`
}

// FrameTimeline is the /frames response shape.
type FrameTimeline struct {
	Samples     []FrameSample `json:"samples"`
	SlowTicks   int           `json:"slowTicks"`
	ThresholdMs float64       `json:"thresholdMs"`
}

// FrameTrace stores recent tick samples in a ring buffer.
type FrameTrace struct {
	mu        sync.RWMutex
	samples   []FrameSample
	index     int
	count     int
	slow      int
	threshold time.Duration
}

// NewFrameTrace creates a trace holding up to capacity samples. Ticks slower
// than threshold are counted as slow. Non-positive arguments select defaults.
func NewFrameTrace(capacity int, threshold time.Duration) *FrameTrace {
	if capacity <= 0 {
		capacity = frameSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultSlowTickThreshold
	}
	return &FrameTrace{
		samples:   make([]FrameSample, capacity),
		threshold: threshold,
	}
}

// Add records one tick.
func (t *FrameTrace) Add(f ui.Frame) {
	sample := FrameSample{
		Tick:          f.Tick,
		Timestamp:     time.Now().UnixMilli(),
		TickMs:        durationToMillis(f.Duration),
		DeclareErrors: f.DeclareErrors,
		RootSize:      safeSize(f.Layout.RootSize),
		Counts: FrameCounts{
			Touched:    f.Touched,
			Created:    f.Created,
			Orphans:    f.Orphans,
			Spawned:    f.Apply.Spawned,
			Despawned:  f.Apply.Despawned,
			Writes:     f.Apply.Writes,
			Upserted:   f.Layout.Upserted,
			Measured:   f.Layout.Measured,
			Relinked:   f.Layout.Relinked,
			Propagated: f.Layout.Propagated,
			Skipped:    f.Layout.Skipped,
		},
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples[t.index] = sample
	t.index = (t.index + 1) % len(t.samples)
	if t.count < len(t.samples) {
		t.count++
	}
	if f.Duration > t.threshold {
		t.slow++
	}
}

// Snapshot returns a chronological copy of the samples.
func (t *FrameTrace) Snapshot() FrameTimeline {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := FrameTimeline{SlowTicks: t.slow, ThresholdMs: durationToMillis(t.threshold)}
	if t.count == 0 {
		return out
	}
	out.Samples = make([]FrameSample, t.count)
	if t.count < len(t.samples) {
		copy(out.Samples, t.samples[:t.count])
	} else {
		copy(out.Samples, t.samples[t.index:])
		copy(out.Samples[len(t.samples)-t.index:], t.samples[:t.index])
	}
	return out
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
