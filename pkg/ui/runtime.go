package ui

import (
	"sync"
	"time"

	"github.com/go-drift/perch/pkg/box"
	"github.com/go-drift/perch/pkg/content"
	"github.com/go-drift/perch/pkg/event"
	"github.com/go-drift/perch/pkg/geometry"
	"github.com/go-drift/perch/pkg/layout"
	"github.com/go-drift/perch/pkg/layout/flex"
	"github.com/go-drift/perch/pkg/node"
	"github.com/go-drift/perch/pkg/reconcile"
)

// RootType is the type name of the node every tick's root widget maps to.
const RootType = "root"

// Options configures a Runtime.
type Options struct {
	// Orphans selects what happens to children that stop being declared.
	Orphans reconcile.OrphanPolicy
	// Viewport is the space percentage root sizes resolve against.
	Viewport geometry.Size
	// Solver defaults to the flex solver.
	Solver layout.Solver
	// Measurer defaults to a content.Measurer without assets.
	Measurer layout.Measurer
}

// Frame summarises one tick.
type Frame struct {
	Tick          uint64
	Root          node.Handle
	Touched       int
	Created       int
	Orphans       int
	DeclareErrors int
	Apply         node.ApplyStats
	Layout        layout.Stats
	Duration      time.Duration
}

// Runtime owns the persistent state behind a declared UI and drives ticks.
//
// Tick must not be called concurrently with itself. The read accessors are
// safe to call from other goroutines, e.g. an inspection server; they observe
// the state left by the last completed tick.
type Runtime struct {
	mu       sync.RWMutex
	arena    *node.Arena
	rec      *reconcile.Reconciler
	bus      *event.Bus
	pipeline *layout.Pipeline
	slotIDs  map[string]int

	tick          uint64
	declareErrors int
}

// NewRuntime creates a runtime with an empty root node.
func NewRuntime(opts Options) *Runtime {
	solver := opts.Solver
	if solver == nil {
		solver = flex.New()
	}
	measurer := opts.Measurer
	if measurer == nil {
		measurer = content.NewMeasurer(nil, nil)
	}

	arena := node.NewArena()
	arena.SpawnRoot(RootType)
	bus := event.NewBus()
	rec := reconcile.New(arena, opts.Orphans)
	rec.OnRelease = bus.RemoveNode

	pipeline := layout.NewPipeline(solver, measurer)
	pipeline.SetViewport(opts.Viewport)

	return &Runtime{
		arena:    arena,
		rec:      rec,
		bus:      bus,
		pipeline: pipeline,
		slotIDs:  make(map[string]int),
	}
}

// Tick declares root, reconciles it, applies the queued changes and runs the
// layout pipeline. root maps onto the runtime's root node regardless of its
// Type; its Key is ignored.
func (r *Runtime) Tick(root Widget) Frame {
	start := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tick++
	r.declareErrors = 0
	r.rec.BeginTick()

	rootHandle := r.arena.Root()
	r.attach(rootHandle, root)
	r.declareChildren(rootHandle, root)
	orphans := r.rec.EndTick()

	frame := Frame{Tick: r.tick, Root: rootHandle, Orphans: orphans, DeclareErrors: r.declareErrors}
	frame.Apply = r.arena.Apply()
	frame.Layout = r.pipeline.Run(r.arena)

	r.arena.Walk(rootHandle, func(n *node.Node) bool {
		h := n.Handle()
		if r.rec.Touched(h) {
			frame.Touched++
		}
		if r.rec.Created(h) {
			frame.Created++
		}
		return true
	})
	frame.Duration = time.Since(start)
	return frame
}

// SetViewport changes the viewport for subsequent ticks.
func (r *Runtime) SetViewport(size geometry.Size) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipeline.SetViewport(size)
}

// Root returns the root node's handle.
func (r *Runtime) Root() node.Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.arena.Root()
}

// Layout returns h's absolute layout record from the last tick.
func (r *Runtime) Layout(h node.Handle) (box.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.arena.Get(h)
	if !ok || !n.HasLayout {
		return box.Record{}, false
	}
	return n.Layout, true
}

// PreviousLayout returns h's record from the tick before the last one.
func (r *Runtime) PreviousLayout(h node.Handle) (box.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.arena.Get(h)
	if !ok || !n.HasPreviousLayout {
		return box.Record{}, false
	}
	return n.PreviousLayout, true
}

// LayoutChanged reports whether h's size, location or content size changed
// in the last tick. A node's first layout counts as a change.
func (r *Runtime) LayoutChanged(h node.Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.arena.Get(h)
	return ok && n.LayoutChanged()
}

// IsNew reports whether h was resolved, created or confirmed, in the last
// tick.
func (r *Runtime) IsNew(h node.Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rec.Touched(h)
}

// Created reports whether h was created in the last tick.
func (r *Runtime) Created(h node.Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rec.Created(h)
}

// Children returns the nodes mapped under h, in declaration order.
func (r *Runtime) Children(h node.Handle) []node.Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rec.Children(h)
}

// Len returns the number of live nodes.
func (r *Runtime) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.arena.Len()
}

// Emit delivers payload to h's handlers for name and returns how many ran.
func (r *Runtime) Emit(h node.Handle, name string, payload any) int {
	return r.bus.Emit(h, name, payload)
}

// EmitBubbling delivers payload, wrapped in an *event.Bubble, to h's handlers
// for name and then to each ancestor's up to the root, until a handler calls
// Stop. It returns how many handlers ran.
func (r *Runtime) EmitBubbling(h node.Handle, name string, payload any) int {
	r.mu.RLock()
	var path []node.Handle
	for cur := h; !cur.IsZero(); {
		n, ok := r.arena.Get(cur)
		if !ok {
			break
		}
		path = append(path, cur)
		cur = n.Parent()
	}
	r.mu.RUnlock()
	return r.bus.EmitBubbling(path, name, payload)
}

// Subscriptions returns the number of live event subscriptions held by h.
func (r *Runtime) Subscriptions(h node.Handle) int {
	return r.bus.Count(h)
}

// View is read access to the state left by the last tick.
type View struct {
	Tick  uint64
	Arena *node.Arena
	rec   *reconcile.Reconciler
}

// IsNew reports whether h was resolved in the viewed tick.
func (v View) IsNew(h node.Handle) bool {
	return v.rec.Touched(h)
}

// Created reports whether h was created in the viewed tick.
func (v View) Created(h node.Handle) bool {
	return v.rec.Created(h)
}

// View runs fn under the runtime's read lock. fn must not retain the arena or
// any node after it returns, and must not call other Runtime methods.
func (r *Runtime) View(fn func(v View)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(View{Tick: r.tick, Arena: r.arena, rec: r.rec})
}
