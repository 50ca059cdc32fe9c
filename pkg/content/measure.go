package content

import "github.com/go-drift/perch/pkg/geometry"

// Known carries the dimensions the solver has already fixed for a node.
type Known struct {
	Width     float64
	Height    float64
	HasWidth  bool
	HasHeight bool
}

// Measurement answers the solver's intrinsic-size query for one node.
type Measurement interface {
	Measure(known Known, available geometry.Size) geometry.Size
}

// FixedMeasure reports a precomputed size. Known dimensions win.
type FixedMeasure struct {
	Size geometry.Size
}

func (m FixedMeasure) Measure(known Known, _ geometry.Size) geometry.Size {
	out := m.Size
	if known.HasWidth {
		out.Width = known.Width
	}
	if known.HasHeight {
		out.Height = known.Height
	}
	return out
}

// ImageMeasure reports a native pixel size and keeps the aspect ratio when
// only one dimension is known.
type ImageMeasure struct {
	Size geometry.Size
}

func (m ImageMeasure) Measure(known Known, _ geometry.Size) geometry.Size {
	switch {
	case known.HasWidth && known.HasHeight:
		return geometry.Size{Width: known.Width, Height: known.Height}
	case known.HasWidth:
		if m.Size.Width == 0 {
			return geometry.Size{Width: known.Width}
		}
		return geometry.Size{Width: known.Width, Height: known.Width * m.Size.Height / m.Size.Width}
	case known.HasHeight:
		if m.Size.Height == 0 {
			return geometry.Size{Height: known.Height}
		}
		return geometry.Size{Width: known.Height * m.Size.Width / m.Size.Height, Height: known.Height}
	default:
		return m.Size
	}
}
