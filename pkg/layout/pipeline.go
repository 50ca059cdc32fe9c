package layout

import (
	"fmt"
	"slices"

	"github.com/go-drift/perch/pkg/content"
	"github.com/go-drift/perch/pkg/errors"
	"github.com/go-drift/perch/pkg/geometry"
	"github.com/go-drift/perch/pkg/node"
	"github.com/go-drift/perch/pkg/style"
)

// defaultRootExtent is used for a root dimension that cannot be resolved.
const defaultRootExtent = 1.0

// Pipeline turns the persistent node graph into absolute layout records.
//
// Run executes three passes in order, once per tick, after the arena's Apply:
//  1. Upsert - pre-order walk that registers every reachable node's style and
//     intrinsic measurement with the solver, then re-links solver children for
//     parents whose child lists changed. Fixed-position children are linked
//     under the root instead of their own parent.
//  2. Solve - one Compute at the root, sized from the root's style.
//  3. Propagate - pre-order walk that snapshots the previous record, converts
//     solver-relative locations to absolute ones by adding the parent's
//     already-propagated location, and assigns paint order.
//
// Nodes that are missing from the arena or carry a marker are skipped together
// with their subtree. That is expected during churn and is not reported.
type Pipeline struct {
	solver   Solver
	measurer Measurer
	viewport geometry.Size
	fixed    []node.Handle
}

// Stats summarises one Run.
type Stats struct {
	Upserted   int
	Measured   int
	Relinked   int
	Removed    int
	Propagated int
	Skipped    int
	RootSize   geometry.Size
}

// NewPipeline creates a pipeline over solver. measurer may be nil, in which
// case no node has an intrinsic size.
func NewPipeline(solver Solver, measurer Measurer) *Pipeline {
	return &Pipeline{solver: solver, measurer: measurer}
}

// SetViewport sets the space percentage root sizes resolve against.
// A zero viewport leaves percentage root sizes unresolved.
func (p *Pipeline) SetViewport(size geometry.Size) {
	p.viewport = size
}

// Viewport returns the configured viewport.
func (p *Pipeline) Viewport() geometry.Size {
	return p.viewport
}

// Run lays out the graph rooted at arena.Root().
func (p *Pipeline) Run(arena *node.Arena) Stats {
	var stats Stats
	for _, h := range arena.DrainRemoved() {
		p.solver.Remove(h)
		stats.Removed++
	}

	rootHandle := arena.Root()
	root, ok := arena.Get(rootHandle)
	if !ok || root.Filtered() {
		return stats
	}

	var fixed []node.Handle
	p.upsert(arena, rootHandle, rootHandle, &fixed, &stats)
	p.relink(arena, rootHandle, fixed, &stats)

	stats.RootSize = p.rootSize(root.Style)
	p.solve(rootHandle, stats.RootSize)

	var order uint32
	p.propagate(arena, rootHandle, nil, &order, &stats)
	return stats
}

func (p *Pipeline) upsert(arena *node.Arena, root, h node.Handle, fixed *[]node.Handle, stats *Stats) {
	n, ok := arena.Get(h)
	if !ok || n.Filtered() {
		stats.Skipped++
		return
	}
	if h != root && n.Style.IsFixed() {
		*fixed = append(*fixed, h)
	}

	m, measured := p.measure(arena, root, n)
	if !measured {
		m = nil
	} else {
		stats.Measured++
	}
	p.solver.Upsert(h, n.Style, m)
	stats.Upserted++

	for _, child := range n.Children() {
		p.upsert(arena, root, child, fixed, stats)
	}
}

// measure needs the container size from the previous tick: the parent's
// record, or the root's for the root itself.
func (p *Pipeline) measure(arena *node.Arena, root node.Handle, n *node.Node) (content.Measurement, bool) {
	if p.measurer == nil || n.Content == nil {
		return nil, false
	}
	containerHandle := n.Parent()
	if containerHandle.IsZero() {
		containerHandle = root
	}
	container, ok := arena.Get(containerHandle)
	if !ok || !container.HasLayout {
		return nil, false
	}
	return p.measurer.Measure(n.Content, container.Layout.Size)
}

func (p *Pipeline) relink(arena *node.Arena, root node.Handle, fixed []node.Handle, stats *Stats) {
	changed := arena.TakeChanged()
	if !slices.Equal(fixed, p.fixed) && !slices.Contains(changed, root) {
		changed = append(changed, root)
	}
	p.fixed = fixed

	for _, parent := range changed {
		n, ok := arena.Get(parent)
		if !ok || n.Filtered() {
			continue
		}
		children := make([]node.Handle, 0, len(n.Children()))
		for _, child := range n.Children() {
			c, ok := arena.Get(child)
			if !ok || c.Filtered() || c.Style.IsFixed() {
				continue
			}
			children = append(children, child)
		}
		if parent == root {
			children = append(children, fixed...)
		}
		p.solver.SetChildren(parent, children)
		stats.Relinked++
	}
}

func (p *Pipeline) rootSize(s style.Style) geometry.Size {
	resolve := func(d style.Dimension, basis float64) float64 {
		if d.Unit == style.UnitPercent && basis <= 0 {
			return defaultRootExtent
		}
		v := d.Resolve(basis, defaultRootExtent)
		if v <= 0 {
			return defaultRootExtent
		}
		return v
	}
	return geometry.Size{
		Width:  resolve(s.Width, p.viewport.Width),
		Height: resolve(s.Height, p.viewport.Height),
	}
}

// solve runs the solver, reporting a panic instead of letting it take down
// the tick. Records from the previous Compute stay in place in that case.
func (p *Pipeline) solve(root node.Handle, size geometry.Size) {
	errors.Guard(func() { p.solver.Compute(root, size) }, func(r any, stack string) {
		errors.Report(&errors.PerchError{
			Op:         "layout.Pipeline.Solve",
			Kind:       errors.KindSolve,
			Node:       root.String(),
			Err:        fmt.Errorf("solver panic: %v", r),
			StackTrace: stack,
		})
	})
}

func (p *Pipeline) propagate(arena *node.Arena, h node.Handle, parentLocation *geometry.Offset, order *uint32, stats *Stats) {
	n, ok := arena.Get(h)
	if !ok || n.Filtered() {
		stats.Skipped++
		return
	}
	rec, ok := p.solver.Layout(h)
	if !ok {
		stats.Skipped++
		return
	}

	if n.HasLayout {
		n.PreviousLayout = n.Layout
		n.HasPreviousLayout = true
	}
	if parentLocation != nil && !n.Style.IsFixed() {
		rec.Location = rec.Location.Add(*parentLocation)
	}
	rec.Order = *order
	*order++
	n.Layout = rec
	n.HasLayout = true
	stats.Propagated++

	for _, child := range n.Children() {
		p.propagate(arena, child, &rec.Location, order, stats)
	}
}
