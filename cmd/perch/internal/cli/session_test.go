package cli

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-drift/perch/cmd/perch/internal/config"
	"github.com/go-drift/perch/pkg/inspect"
)

func TestSessionReload(t *testing.T) {
	dir, path := setupProject(t)
	cfg, err := config.Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	s, err := openSession(cfg, path, newLogger(&logs, 0))
	if err != nil {
		t.Fatal(err)
	}
	s.trace = inspect.NewFrameTrace(4, 0)
	s.run(2)

	if changed, err := s.reload(); err != nil || changed {
		t.Fatalf("reload of an unchanged file = %v, %v", changed, err)
	}

	edited := `
version: "1.1"
viewport: {width: 200, height: 100}
root:
  style: {width: 100%, height: 100%}
  children:
    - type: label
      key: title
      text: hello
`
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	changed, err := s.reload()
	if err != nil || !changed {
		t.Fatalf("reload after edit = %v, %v", changed, err)
	}
	frame := s.run(1)
	if frame.Orphans != 1 {
		t.Errorf("Orphans = %d, want 1 (the removed fixed box)", frame.Orphans)
	}
	if frame.Layout.RootSize.Width != 200 {
		t.Errorf("RootSize = %v, want the reloaded viewport", frame.Layout.RootSize)
	}
	if n := len(s.trace.Snapshot().Samples); n != 3 {
		t.Errorf("trace samples = %d, want 3", n)
	}

	// A broken edit keeps the previous tree.
	if err := os.WriteFile(path, []byte("version: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	later := future.Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	if _, err := s.reload(); err == nil {
		t.Error("expected a parse error")
	}
	if frame := s.run(1); frame.Created != 0 || frame.Orphans != 0 {
		t.Errorf("tree changed after a failed reload: %+v", frame)
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	dir, path := setupProject(t)
	cfg, err := config.Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	s, err := openSession(cfg, path, newLogger(&bytes.Buffer{}, 0))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watch(ctx, s, time.Millisecond)
		close(done)
	}()
	for s.rt.Len() == 1 {
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
