package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/go-drift/perch/cmd/perch/internal/config"
	"github.com/go-drift/perch/pkg/content"
	"github.com/go-drift/perch/pkg/geometry"
	"github.com/go-drift/perch/pkg/inspect"
	"github.com/go-drift/perch/pkg/scene"
	"github.com/go-drift/perch/pkg/ui"
)

func defaultViewport() geometry.Size {
	return geometry.Size{Width: config.DefaultWidth, Height: config.DefaultHeight}
}

// session drives a runtime from one scene file.
type session struct {
	path    string
	logger  *log.Logger
	rt      *ui.Runtime
	assets  *content.AssetCache
	widget  ui.Widget
	modTime time.Time
	frames  int
	// trace, when set, records every tick.
	trace   *inspect.FrameTrace
}

func openSession(cfg *config.Resolved, path string, logger *log.Logger) (*session, error) {
	sc, modTime, err := loadScene(path)
	if err != nil {
		return nil, err
	}
	w, err := sc.Widget()
	if err != nil {
		return nil, err
	}

	viewport := sc.ViewportSize()
	if viewport.Width <= 0 || viewport.Height <= 0 {
		viewport = cfg.Viewport
	}

	var measurer *content.Measurer
	if info, err := os.Stat(cfg.AssetsDir); err == nil && info.IsDir() {
		measurer = content.NewMeasurer(os.DirFS(cfg.AssetsDir), nil)
	} else {
		logger.Debug("no asset directory, images are unmeasured", "dir", cfg.AssetsDir)
		measurer = content.NewMeasurer(nil, nil)
	}

	rt := ui.NewRuntime(ui.Options{
		Orphans:  cfg.Orphans,
		Viewport: viewport,
		Measurer: measurer,
	})
	logger.Debug("scene loaded", "path", path, "version", sc.Version, "viewport", viewport)
	return &session{
		path:    path,
		logger:  logger,
		rt:      rt,
		assets:  measurer.Cache(),
		widget:  w,
		modTime: modTime,
	}, nil
}

func loadScene(path string) (*scene.Scene, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("scene: %w", err)
	}
	sc, err := scene.Load(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	return sc, info.ModTime(), nil
}

// run ticks n times. Text and images are measured against the previous
// tick's boxes, so a scene settles from the second tick on.
func (s *session) run(n int) ui.Frame {
	var frame ui.Frame
	for range max(n, 1) {
		frame = s.rt.Tick(s.widget)
		s.frames++
		if s.trace != nil {
			s.trace.Add(frame)
		}
		s.logger.Debug("tick",
			"tick", frame.Tick,
			"created", frame.Created,
			"orphans", frame.Orphans,
			"spawned", frame.Apply.Spawned,
			"despawned", frame.Apply.Despawned,
			"propagated", frame.Layout.Propagated,
			"took", frame.Duration,
		)
	}
	return frame
}

// reload re-reads the scene when its file changed. A broken edit keeps the
// previous tree. Cached asset sizes are dropped on every successful reload.
func (s *session) reload() (bool, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return false, fmt.Errorf("scene: %w", err)
	}
	if !info.ModTime().After(s.modTime) {
		return false, nil
	}
	s.modTime = info.ModTime()
	sc, err := scene.Load(s.path)
	if err != nil {
		return false, err
	}
	w, err := sc.Widget()
	if err != nil {
		return false, err
	}
	s.widget = w
	s.assets.Reset()
	if v := sc.ViewportSize(); v.Width > 0 && v.Height > 0 {
		s.rt.SetViewport(v)
	}
	return true, nil
}
