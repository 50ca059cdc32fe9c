// Package layouttest provides a scripted layout solver for tests.
//
// The scripted solver does no layout of its own. Every node gets either the
// record set with Set, or a record derived directly from its style: the size
// is the style's pixel width and height (falling back to the measurement, then
// zero) and the location is the top-left margin. All locations are relative to
// the solver parent, exactly like a real solver's output.
package layouttest

import (
	"sync"

	"github.com/go-drift/perch/pkg/box"
	"github.com/go-drift/perch/pkg/content"
	"github.com/go-drift/perch/pkg/geometry"
	"github.com/go-drift/perch/pkg/node"
	"github.com/go-drift/perch/pkg/style"
)

// ComputeCall records one Compute invocation.
type ComputeCall struct {
	Root      node.Handle
	Available geometry.Size
}

// Solver is a scripted layout.Solver that also records how it was driven.
type Solver struct {
	mu       sync.Mutex
	scripted map[node.Handle]box.Record
	styles   map[node.Handle]style.Style
	measures map[node.Handle]content.Measurement
	children map[node.Handle][]node.Handle
	computed map[node.Handle]box.Record

	Upserts  int
	Removed  []node.Handle
	Computes []ComputeCall
	// PanicOnCompute makes the next Compute panic.
	PanicOnCompute bool
}

// New creates an empty scripted solver.
func New() *Solver {
	return &Solver{
		scripted: make(map[node.Handle]box.Record),
		styles:   make(map[node.Handle]style.Style),
		measures: make(map[node.Handle]content.Measurement),
		children: make(map[node.Handle][]node.Handle),
		computed: make(map[node.Handle]box.Record),
	}
}

// Set scripts the solver-relative record for h. Order is ignored.
func (s *Solver) Set(h node.Handle, rec box.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripted[h] = rec
}

// Upsert implements layout.Solver.
func (s *Solver) Upsert(h node.Handle, st style.Style, m content.Measurement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.styles[h] = st
	if m == nil {
		delete(s.measures, h)
	} else {
		s.measures[h] = m
	}
	s.Upserts++
}

// SetChildren implements layout.Solver.
func (s *Solver) SetChildren(parent node.Handle, children []node.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children[parent] = append([]node.Handle(nil), children...)
}

// Remove implements layout.Solver.
func (s *Solver) Remove(h node.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.styles, h)
	delete(s.measures, h)
	delete(s.children, h)
	delete(s.computed, h)
	delete(s.scripted, h)
	s.Removed = append(s.Removed, h)
}

// Compute implements layout.Solver. Only nodes reachable from root through
// SetChildren edges receive a record.
func (s *Solver) Compute(root node.Handle, available geometry.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Computes = append(s.Computes, ComputeCall{Root: root, Available: available})
	if s.PanicOnCompute {
		s.PanicOnCompute = false
		panic("layouttest: scripted panic")
	}
	s.computed = make(map[node.Handle]box.Record)
	s.compute(root, available, true)
}

func (s *Solver) compute(h node.Handle, available geometry.Size, isRoot bool) {
	if _, ok := s.styles[h]; !ok {
		return
	}
	rec, ok := s.scripted[h]
	if !ok {
		rec = s.fromStyle(h, available)
	}
	if isRoot {
		rec.Size = available
	}
	rec.Order = 0
	s.computed[h] = rec
	for _, child := range s.children[h] {
		s.compute(child, rec.Size, false)
	}
}

func (s *Solver) fromStyle(h node.Handle, available geometry.Size) box.Record {
	st := s.styles[h]
	var intrinsic geometry.Size
	if m, ok := s.measures[h]; ok {
		intrinsic = m.Measure(content.Known{}, available)
	}
	return box.Record{
		Location: geometry.Offset{X: st.Margin.Left, Y: st.Margin.Top},
		Size: geometry.Size{
			Width:  st.Width.Resolve(available.Width, intrinsic.Width),
			Height: st.Height.Resolve(available.Height, intrinsic.Height),
		},
		Border:  st.Border,
		Padding: st.Padding,
	}
}

// Layout implements layout.Solver.
func (s *Solver) Layout(h node.Handle) (box.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.computed[h]
	return rec, ok
}

// Children returns the solver edges last set for parent.
func (s *Solver) Children(parent node.Handle) []node.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]node.Handle(nil), s.children[parent]...)
}

// Known reports whether the solver currently holds a node for h.
func (s *Solver) Known(h node.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.styles[h]
	return ok
}

// Measurement returns the measurement last upserted for h.
func (s *Solver) Measurement(h node.Handle) (content.Measurement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.measures[h]
	return m, ok
}
