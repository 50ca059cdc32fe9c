package ui_test

import (
	"testing"

	"github.com/go-drift/perch/pkg/geometry"
	"github.com/go-drift/perch/pkg/node"
	"github.com/go-drift/perch/pkg/style"
	"github.com/go-drift/perch/pkg/ui"
)

func TestDefaultSolverEndToEnd(t *testing.T) {
	rt := ui.NewRuntime(ui.Options{Viewport: geometry.Size{Width: 800, Height: 600}})
	tree := ui.Widget{
		Type:  "root",
		Style: style.Style{Width: style.Percent(50), Height: style.Percent(50), Padding: geometry.EdgeAll(10), AlignItems: style.AlignStart},
		Children: []ui.Widget{
			ui.Label(style.Style{}, "hello world"),
			ui.Box(style.Style{FlexGrow: 1, Height: style.Px(20)}),
		},
	}

	// Text is measured against the parent's previous layout, so the label
	// only gets its size on the second tick.
	rt.Tick(tree)
	frame := rt.Tick(tree)

	if want := (geometry.Size{Width: 400, Height: 300}); frame.Layout.RootSize != want {
		t.Fatalf("RootSize = %v, want %v", frame.Layout.RootSize, want)
	}
	children := rt.Children(rt.Root())
	label, _ := rt.Layout(children[0])
	fill, _ := rt.Layout(children[1])

	// basicfont.Face7x13: 11 glyphs of 7px, one 13px line.
	if want := (geometry.Size{Width: 77, Height: 13}); label.Size != want {
		t.Errorf("label size = %v, want %v", label.Size, want)
	}
	if want := (geometry.Offset{X: 10, Y: 10}); label.Location != want {
		t.Errorf("label location = %v, want %v", label.Location, want)
	}
	if want := (geometry.Offset{X: 87, Y: 10}); fill.Location != want {
		t.Errorf("fill location = %v, want %v", fill.Location, want)
	}
	if fill.Size.Width != 380-77 {
		t.Errorf("fill width = %v, want %v", fill.Size.Width, 380-77)
	}

	third := rt.Tick(tree)
	if third.Layout.Measured != 1 {
		t.Errorf("Measured = %d, want 1", third.Layout.Measured)
	}
	if rt.LayoutChanged(children[0]) {
		t.Error("label layout changed on a steady tick")
	}
}

func TestClearedMarkerLaysOutSubtree(t *testing.T) {
	rt := ui.NewRuntime(ui.Options{Viewport: geometry.Size{Width: 200, Height: 100}})
	tree := func(m node.Marker) ui.Widget {
		return ui.Widget{
			Type:  "root",
			Style: style.Style{Width: style.Percent(100), Height: style.Percent(100)},
			Children: []ui.Widget{{
				Type:   "panel",
				Marker: m,
				Style:  style.Style{Width: style.Px(80), Height: style.Px(40)},
				Children: []ui.Widget{
					ui.Box(style.Style{Width: style.Px(20), Height: style.Px(10)}),
				},
			}},
		}
	}

	rt.Tick(tree(node.MarkerState))
	rt.Tick(tree(node.MarkerState))
	panel := rt.Children(rt.Root())[0]
	leaf := rt.Children(panel)[0]
	if _, ok := rt.Layout(leaf); ok {
		t.Fatal("leaf under a filtered panel should have no layout")
	}

	for range 3 {
		rt.Tick(tree(node.MarkerNone))
	}
	if _, ok := rt.Layout(panel); !ok {
		t.Error("panel has no layout after its marker was cleared")
	}
	rec, ok := rt.Layout(leaf)
	if !ok {
		t.Fatal("leaf has no layout after its parent's marker was cleared")
	}
	if want := (geometry.Size{Width: 20, Height: 10}); rec.Size != want {
		t.Errorf("leaf size = %v, want %v", rec.Size, want)
	}
}
