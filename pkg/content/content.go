// Package content describes what a node renders and how much room it needs.
//
// Content is a closed set of variants. The layout pipeline asks a Measurer for
// an intrinsic size, which the solver consults when the style leaves a
// dimension open.
package content

// Kind identifies a Content variant.
type Kind uint8

const (
	KindNone Kind = iota
	KindText
	KindImage
	KindVector
	KindQuad
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindVector:
		return "vector"
	case KindQuad:
		return "quad"
	case KindCustom:
		return "custom"
	default:
		return "none"
	}
}

// Content is implemented only by the variants in this package.
type Content interface {
	Kind() Kind
	sealed()
}

// None renders nothing and has no intrinsic size.
type None struct{}

// Text is a run of text, optionally wrapped at the container width.
type Text struct {
	Value    string
	WordWrap bool
	// FontSize in pixels. Zero uses the face's native size.
	FontSize float64
}

// Image is a raster asset sized by its pixel dimensions.
type Image struct {
	Asset string
}

// Vector is an SVG asset sized by its declared width/height or viewBox.
type Vector struct {
	Asset string
}

// Quad is a plain filled box. It has no intrinsic size.
type Quad struct{}

// Custom is painted by widget code. It has no intrinsic size.
type Custom struct {
	Name string
}

func (None) Kind() Kind   { return KindNone }
func (Text) Kind() Kind   { return KindText }
func (Image) Kind() Kind  { return KindImage }
func (Vector) Kind() Kind { return KindVector }
func (Quad) Kind() Kind   { return KindQuad }
func (Custom) Kind() Kind { return KindCustom }

func (None) sealed()   {}
func (Text) sealed()   {}
func (Image) sealed()  {}
func (Vector) sealed() {}
func (Quad) sealed()   {}
func (Custom) sealed() {}

// KindOf returns the kind of c, treating nil as None.
func KindOf(c Content) Kind {
	if c == nil {
		return KindNone
	}
	return c.Kind()
}
