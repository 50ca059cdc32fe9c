// Package box holds the computed layout record attached to every persistent
// node.
package box

import "github.com/go-drift/perch/pkg/geometry"

// Record is one node's computed box.
//
// Location is relative to the node's solver parent while the solver owns the
// record, and absolute screen space once the layout pipeline has propagated it.
type Record struct {
	// Order is the paint order. Higher orders paint on top of lower ones, and
	// an ancestor always has a lower order than its descendants.
	Order uint32
	// Location is the top-left corner of the border box.
	Location geometry.Offset
	// Size is the border-box size.
	Size geometry.Size
	// ContentSize is the extent of the children. It may exceed Size when the
	// content overflows, which makes it usable as a scroll width/height.
	ContentSize geometry.Size
	// ScrollbarSize is the room reserved for scrollbars in each dimension.
	ScrollbarSize geometry.Size
	Border        geometry.EdgeInsets
	Padding       geometry.EdgeInsets
}

// Width returns the border-box width.
func (r Record) Width() float64 { return r.Size.Width }

// Height returns the border-box height.
func (r Record) Height() float64 { return r.Size.Height }

// ContentWidth returns the width taken up by the children.
func (r Record) ContentWidth() float64 { return r.ContentSize.Width }

// ContentHeight returns the height taken up by the children.
func (r Record) ContentHeight() float64 { return r.ContentSize.Height }

// Rect returns the border box.
func (r Record) Rect() geometry.Rect {
	return geometry.RectFromOffsetSize(r.Location, r.Size)
}

// ContentRect returns the border box minus border and padding.
func (r Record) ContentRect() geometry.Rect {
	return r.Rect().Inset(r.Border.Add(r.Padding))
}

// Equal reports whether two records describe the same box for change
// detection. Order, border, and padding are not compared.
func (r Record) Equal(other Record) bool {
	return r.Size == other.Size &&
		r.Location == other.Location &&
		r.ContentSize == other.ContentSize
}
