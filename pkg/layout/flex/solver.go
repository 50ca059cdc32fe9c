// Package flex is the default layout.Solver: a flexbox subset that covers
// row and column containers, wrapping, gaps, grow and shrink, min and max
// sizes, margin, padding, border, justify, align-items, fixed children and
// scrollbar gutters.
//
// Layout is computed top-down from the root in one pass. Auto-sized nodes hug
// their content: a measured leaf uses its measurement, a container the extent
// of its in-flow children.
package flex

import (
	"math"

	"github.com/go-drift/perch/pkg/box"
	"github.com/go-drift/perch/pkg/content"
	"github.com/go-drift/perch/pkg/geometry"
	"github.com/go-drift/perch/pkg/node"
	"github.com/go-drift/perch/pkg/style"
)

type entry struct {
	style    style.Style
	measure  content.Measurement
	children []node.Handle
	record   box.Record
	computed bool
}

// Solver keeps one entry per upserted handle. It is not safe for concurrent
// use.
type Solver struct {
	nodes map[node.Handle]*entry
}

// New creates an empty solver.
func New() *Solver {
	return &Solver{nodes: make(map[node.Handle]*entry)}
}

// Len returns the number of nodes the solver holds.
func (s *Solver) Len() int {
	return len(s.nodes)
}

// Upsert implements layout.Solver.
func (s *Solver) Upsert(h node.Handle, st style.Style, m content.Measurement) {
	e, ok := s.nodes[h]
	if !ok {
		e = &entry{}
		s.nodes[h] = e
	}
	e.style = st
	e.measure = m
}

// SetChildren implements layout.Solver.
func (s *Solver) SetChildren(parent node.Handle, children []node.Handle) {
	e, ok := s.nodes[parent]
	if !ok {
		return
	}
	e.children = append(e.children[:0], children...)
}

// Remove implements layout.Solver.
func (s *Solver) Remove(h node.Handle) {
	delete(s.nodes, h)
}

// Compute implements layout.Solver. The root fills available exactly.
func (s *Solver) Compute(root node.Handle, available geometry.Size) {
	e, ok := s.nodes[root]
	if !ok {
		return
	}
	s.place(e, geometry.Offset{}, available)
}

// Layout implements layout.Solver.
func (s *Solver) Layout(h node.Handle) (box.Record, bool) {
	e, ok := s.nodes[h]
	if !ok || !e.computed {
		return box.Record{}, false
	}
	return e.record, true
}

func (s *Solver) children(e *entry) (flow, fixed []*entry) {
	for _, h := range e.children {
		c, ok := s.nodes[h]
		if !ok {
			continue
		}
		if c.style.IsFixed() {
			fixed = append(fixed, c)
		} else {
			flow = append(flow, c)
		}
	}
	return flow, fixed
}

// place records e's border box at the parent-relative location at and lays
// out its children inside it.
func (s *Solver) place(e *entry, at geometry.Offset, size geometry.Size) {
	st := e.style
	insets := st.Insets()
	gutter := scrollbarGutter(st)
	inner := geometry.Size{
		Width:  math.Max(0, size.Width-insets.Horizontal()-gutter),
		Height: math.Max(0, size.Height-insets.Vertical()-gutter),
	}

	e.record = box.Record{
		Location:      at,
		Size:          size,
		ScrollbarSize: geometry.Size{Width: gutter, Height: gutter},
		Border:        st.Border,
		Padding:       st.Padding,
	}
	e.computed = true

	flow, fixed := s.children(e)
	origin := geometry.Offset{X: insets.Left, Y: insets.Top}
	switch {
	case len(flow) > 0:
		far := s.layoutFlow(e, flow, origin, inner)
		e.record.ContentSize = geometry.Size{
			Width:  far.X + insets.Right,
			Height: far.Y + insets.Bottom,
		}
	case e.measure != nil:
		e.record.ContentSize = inner
	}

	// Fixed children ignore flow and sit at their margin offset.
	for _, c := range fixed {
		loc := geometry.Offset{X: c.style.Margin.Left, Y: c.style.Margin.Top}
		s.place(c, loc, s.hug(c, size))
	}
}

func scrollbarGutter(st style.Style) float64 {
	if st.Overflow != style.OverflowScroll {
		return 0
	}
	return math.Max(0, st.ScrollbarWidth)
}

// hug returns e's border-box size when it is sized by its own style and
// content within avail.
func (s *Solver) hug(e *entry, avail geometry.Size) geometry.Size {
	st := e.style
	insets := st.Insets()
	gutter := scrollbarGutter(st)
	w, hasW := resolve(st.Width, avail.Width)
	h, hasH := resolve(st.Height, avail.Height)

	if !hasW || !hasH {
		innerAvail := geometry.Size{
			Width:  math.Max(0, avail.Width-insets.Horizontal()-gutter),
			Height: math.Max(0, avail.Height-insets.Vertical()-gutter),
		}
		var inner geometry.Size
		if e.measure != nil {
			known := content.Known{}
			if hasW {
				known.Width, known.HasWidth = math.Max(0, w-insets.Horizontal()-gutter), true
			}
			if hasH {
				known.Height, known.HasHeight = math.Max(0, h-insets.Vertical()-gutter), true
			}
			inner = e.measure.Measure(known, innerAvail)
		} else {
			inner = s.hugChildren(e, innerAvail)
		}
		if !hasW {
			w = inner.Width + insets.Horizontal() + gutter
		}
		if !hasH {
			h = inner.Height + insets.Vertical() + gutter
		}
	}

	return geometry.Size{
		Width:  clamp(w, minSize(st.MinWidth, avail.Width), maxSize(st.MaxWidth, avail.Width)),
		Height: clamp(h, minSize(st.MinHeight, avail.Height), maxSize(st.MaxHeight, avail.Height)),
	}
}

// hugChildren returns the content-box size needed by e's in-flow children
// laid out on a single line.
func (s *Solver) hugChildren(e *entry, avail geometry.Size) geometry.Size {
	flow, _ := s.children(e)
	if len(flow) == 0 {
		return geometry.Size{}
	}
	isRow := e.style.Direction == style.Row
	var main, cross float64
	for _, c := range flow {
		size := s.hug(c, avail)
		m := c.style.Margin
		if isRow {
			main += size.Width + m.Horizontal()
			cross = math.Max(cross, size.Height+m.Vertical())
		} else {
			main += size.Height + m.Vertical()
			cross = math.Max(cross, size.Width+m.Horizontal())
		}
	}
	main += e.style.Gap * float64(len(flow)-1)
	if isRow {
		return geometry.Size{Width: main, Height: cross}
	}
	return geometry.Size{Width: cross, Height: main}
}

func resolve(d style.Dimension, basis float64) (float64, bool) {
	if d.IsAuto() {
		return 0, false
	}
	return math.Max(0, d.Resolve(basis, 0)), true
}

func minSize(d style.Dimension, basis float64) float64 {
	return d.Resolve(basis, 0)
}

func maxSize(d style.Dimension, basis float64) float64 {
	return d.Resolve(basis, math.Inf(1))
}

// clamp restricts v to [lo, hi]. When lo > hi, lo wins.
func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
