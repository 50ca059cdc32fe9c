package layout

import (
	"github.com/go-drift/perch/pkg/box"
	"github.com/go-drift/perch/pkg/content"
	"github.com/go-drift/perch/pkg/geometry"
	"github.com/go-drift/perch/pkg/node"
	"github.com/go-drift/perch/pkg/style"
)

// Solver is the external box-layout engine.
//
// The pipeline mirrors the persistent graph into the solver each tick, asks
// it to compute once at the root, and reads back solver-relative records: each
// location is relative to the node's solver parent. Fixed-position nodes are
// registered as children of the root, so their locations are root-relative.
type Solver interface {
	// Upsert creates or updates the solver node for h. m is nil when the node
	// has no intrinsic size.
	Upsert(h node.Handle, s style.Style, m content.Measurement)
	// SetChildren replaces the ordered solver children of parent.
	SetChildren(parent node.Handle, children []node.Handle)
	// Remove forgets h. Unknown handles are ignored.
	Remove(h node.Handle)
	// Compute lays out the tree under root within available.
	Compute(root node.Handle, available geometry.Size)
	// Layout returns the last computed record for h.
	Layout(h node.Handle) (box.Record, bool)
}

// Measurer produces intrinsic measurements from render content.
// *content.Measurer is the standard implementation.
type Measurer interface {
	Measure(c content.Content, container geometry.Size) (content.Measurement, bool)
}
