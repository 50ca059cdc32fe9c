package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-drift/perch/pkg/ui"
)

func TestFrameTraceWrapsInOrder(t *testing.T) {
	trace := NewFrameTrace(3, 10*time.Millisecond)
	for i := uint64(1); i <= 5; i++ {
		d := time.Millisecond
		if i == 4 {
			d = 20 * time.Millisecond
		}
		trace.Add(ui.Frame{Tick: i, Duration: d, Created: int(i)})
	}

	got := trace.Snapshot()
	if len(got.Samples) != 3 {
		t.Fatalf("samples = %d, want 3", len(got.Samples))
	}
	for i, want := range []uint64{3, 4, 5} {
		if got.Samples[i].Tick != want {
			t.Errorf("sample %d tick = %d, want %d", i, got.Samples[i].Tick, want)
		}
	}
	if got.SlowTicks != 1 || got.ThresholdMs != 10 {
		t.Errorf("SlowTicks = %d ThresholdMs = %v", got.SlowTicks, got.ThresholdMs)
	}
	if got.Samples[2].Counts.Created != 5 {
		t.Errorf("Created = %d, want 5", got.Samples[2].Counts.Created)
	}
}

func TestFrameTraceEmpty(t *testing.T) {
	got := NewFrameTrace(0, 0).Snapshot()
	if got.Samples != nil || got.SlowTicks != 0 {
		t.Errorf("empty snapshot = %+v", got)
	}
}

func TestServerFramesRoute(t *testing.T) {
	rt := sampleRuntime()
	trace := NewFrameTrace(8, 0)
	trace.Add(rt.Tick(ui.Widget{Type: "root"}))

	srv := NewServer(func() Tree { return Snapshot(rt) }, nil, WithFrames(trace))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frames", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var timeline FrameTimeline
	if err := json.Unmarshal(rec.Body.Bytes(), &timeline); err != nil {
		t.Fatal(err)
	}
	if len(timeline.Samples) != 1 || timeline.Samples[0].Tick != 2 || timeline.Samples[0].Counts.Orphans != 2 {
		t.Errorf("timeline = %+v", timeline)
	}

	bare := NewServer(func() Tree { return Snapshot(rt) }, nil)
	rec = httptest.NewRecorder()
	bare.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frames", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("/frames without a trace: status = %d, want 404", rec.Code)
	}
}
