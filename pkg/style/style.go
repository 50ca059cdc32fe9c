// Package style describes the box-model properties a widget hands to the
// layout solver.
package style

import "github.com/go-drift/perch/pkg/geometry"

// Position selects whether a node takes part in its parent's flow.
type Position uint8

const (
	// PositionRelative nodes are laid out inside their parent.
	PositionRelative Position = iota
	// PositionFixed nodes are anchored to the root's coordinate space.
	PositionFixed
)

func (p Position) String() string {
	if p == PositionFixed {
		return "fixed"
	}
	return "relative"
}

// Direction is the main axis of a flex container.
type Direction uint8

const (
	Row Direction = iota
	Column
)

func (d Direction) String() string {
	if d == Column {
		return "column"
	}
	return "row"
}

// Justify distributes free space along the main axis.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
)

// Align positions children along the cross axis.
type Align uint8

const (
	AlignStretch Align = iota
	AlignStart
	AlignEnd
	AlignCenter
)

// Overflow controls whether a container reserves room for a scrollbar.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
)

// Style is the set of box-model properties for one node.
// The zero value is an auto-sized, relatively positioned row.
type Style struct {
	Position Position

	Width     Dimension
	Height    Dimension
	MinWidth  Dimension
	MinHeight Dimension
	MaxWidth  Dimension
	MaxHeight Dimension

	Margin  geometry.EdgeInsets
	Padding geometry.EdgeInsets
	Border  geometry.EdgeInsets

	Direction  Direction
	Wrap       bool
	Justify    Justify
	AlignItems Align
	Gap        float64

	FlexGrow   float64
	FlexShrink float64

	Overflow       Overflow
	ScrollbarWidth float64
}

// IsFixed reports whether the node is excluded from nested layout.
func (s Style) IsFixed() bool {
	return s.Position == PositionFixed
}

// Insets returns padding plus border, the distance from the border box to
// the content box.
func (s Style) Insets() geometry.EdgeInsets {
	return s.Padding.Add(s.Border)
}
