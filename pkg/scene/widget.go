package scene

import (
	"fmt"

	"github.com/go-drift/perch/pkg/content"
	"github.com/go-drift/perch/pkg/geometry"
	"github.com/go-drift/perch/pkg/node"
	"github.com/go-drift/perch/pkg/style"
	"github.com/go-drift/perch/pkg/ui"
)

// DefaultType is used for nodes without a type.
const DefaultType = "box"

// ViewportSize returns the viewport as a geometry.Size.
func (sc *Scene) ViewportSize() geometry.Size {
	return geometry.Size{Width: sc.Viewport.Width, Height: sc.Viewport.Height}
}

// Widget converts the scene's root into a declared widget tree.
func (sc *Scene) Widget() (ui.Widget, error) {
	return sc.Root.widget("root")
}

func (n Node) widget(path string) (ui.Widget, error) {
	w := ui.Widget{Type: n.Type, Key: n.Key}
	if w.Type == "" {
		w.Type = DefaultType
	}

	var err error
	if w.Style, err = n.Style.convert(); err != nil {
		return ui.Widget{}, fmt.Errorf("%s.style: %w", path, err)
	}
	if w.Content, err = n.content(); err != nil {
		return ui.Widget{}, fmt.Errorf("%s: %w", path, err)
	}
	switch n.Marker {
	case "":
	case "state":
		w.Marker = node.MarkerState
	case "previous":
		w.Marker = node.MarkerPrevious
	default:
		return ui.Widget{}, fmt.Errorf("%s.marker: unknown marker %q", path, n.Marker)
	}

	for i, c := range n.Children {
		child, err := c.widget(fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return ui.Widget{}, err
		}
		w.Children = append(w.Children, child)
	}
	return w, nil
}

func (n Node) content() (content.Content, error) {
	var out []content.Content
	if n.Text != "" {
		out = append(out, content.Text{Value: n.Text, WordWrap: n.Wrap, FontSize: n.FontSize})
	}
	if n.Image != "" {
		out = append(out, content.Image{Asset: n.Image})
	}
	if n.Vector != "" {
		out = append(out, content.Vector{Asset: n.Vector})
	}
	if n.Quad {
		out = append(out, content.Quad{})
	}
	if n.Custom != "" {
		out = append(out, content.Custom{Name: n.Custom})
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0], nil
	default:
		return nil, fmt.Errorf("node declares %d kinds of content, want at most one", len(out))
	}
}

func (s Style) convert() (style.Style, error) {
	var out style.Style
	dims := []struct {
		name string
		src  string
		dst  *style.Dimension
	}{
		{"width", s.Width, &out.Width},
		{"height", s.Height, &out.Height},
		{"min_width", s.MinWidth, &out.MinWidth},
		{"min_height", s.MinHeight, &out.MinHeight},
		{"max_width", s.MaxWidth, &out.MaxWidth},
		{"max_height", s.MaxHeight, &out.MaxHeight},
	}
	for _, d := range dims {
		v, err := style.ParseDimension(d.src)
		if err != nil {
			return style.Style{}, fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = v
	}

	edges := []struct {
		name string
		src  []float64
		dst  *geometry.EdgeInsets
	}{
		{"margin", s.Margin, &out.Margin},
		{"padding", s.Padding, &out.Padding},
		{"border", s.Border, &out.Border},
	}
	for _, e := range edges {
		v, err := parseEdges(e.src)
		if err != nil {
			return style.Style{}, fmt.Errorf("%s: %w", e.name, err)
		}
		*e.dst = v
	}

	var err error
	if out.Position, err = lookup("position", s.Position, positions); err != nil {
		return style.Style{}, err
	}
	if out.Direction, err = lookup("direction", s.Direction, directions); err != nil {
		return style.Style{}, err
	}
	if out.Justify, err = lookup("justify", s.Justify, justifies); err != nil {
		return style.Style{}, err
	}
	if out.AlignItems, err = lookup("align", s.Align, aligns); err != nil {
		return style.Style{}, err
	}
	if out.Overflow, err = lookup("overflow", s.Overflow, overflows); err != nil {
		return style.Style{}, err
	}

	out.Wrap = s.Wrap
	out.Gap = s.Gap
	out.FlexGrow = s.Grow
	out.FlexShrink = s.Shrink
	out.ScrollbarWidth = s.Scrollbar
	return out, nil
}

var (
	positions  = map[string]style.Position{"relative": style.PositionRelative, "fixed": style.PositionFixed}
	directions = map[string]style.Direction{"row": style.Row, "column": style.Column}
	justifies  = map[string]style.Justify{
		"start":         style.JustifyStart,
		"end":           style.JustifyEnd,
		"center":        style.JustifyCenter,
		"space-between": style.JustifySpaceBetween,
		"space-around":  style.JustifySpaceAround,
	}
	aligns = map[string]style.Align{
		"stretch": style.AlignStretch,
		"start":   style.AlignStart,
		"end":     style.AlignEnd,
		"center":  style.AlignCenter,
	}
	overflows = map[string]style.Overflow{
		"visible": style.OverflowVisible,
		"hidden":  style.OverflowHidden,
		"scroll":  style.OverflowScroll,
	}
)

// lookup maps a named enum value. An empty name selects the zero value.
func lookup[T any](field, name string, values map[string]T) (T, error) {
	var zero T
	if name == "" {
		return zero, nil
	}
	v, ok := values[name]
	if !ok {
		return zero, fmt.Errorf("%s: unknown value %q", field, name)
	}
	return v, nil
}

// parseEdges expands CSS shorthand: [all], [vertical, horizontal] or
// [top, right, bottom, left].
func parseEdges(v []float64) (geometry.EdgeInsets, error) {
	switch len(v) {
	case 0:
		return geometry.EdgeInsets{}, nil
	case 1:
		return geometry.EdgeAll(v[0]), nil
	case 2:
		return geometry.EdgeSymmetric(v[0], v[1]), nil
	case 4:
		return geometry.EdgeInsets{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}, nil
	default:
		return geometry.EdgeInsets{}, fmt.Errorf("want 1, 2 or 4 values, got %d", len(v))
	}
}
