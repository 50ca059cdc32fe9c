package inspect

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts a snapshot into Graphviz DOT. Each node is labelled with its
// type, key and absolute box; filtered nodes are dashed, fixed nodes blue and
// nodes created in the snapshot's tick green.
func ToDOT(t Tree) string {
	var buf bytes.Buffer
	buf.WriteString("digraph perch {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\"];\n")
	buf.WriteString("\n")

	t.Walk(func(n *Node) {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Handle, strings.Join(attrs(n), ", "))
	})
	buf.WriteString("\n")
	t.Walk(func(n *Node) {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.Handle, c.Handle)
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

func label(n *Node) string {
	name := n.Type
	if n.Key != "" {
		name += "-" + n.Key
	}
	lines := []string{name}
	if n.Content != "" {
		lines = append(lines, n.Content)
	}
	if n.Laid {
		lines = append(lines,
			fmt.Sprintf("#%d (%g,%g)", n.Order, float64(n.Location.X), float64(n.Location.Y)),
			fmt.Sprintf("%gx%g", float64(n.Size.Width), float64(n.Size.Height)),
		)
	}
	return strings.Join(lines, "\n")
}

func attrs(n *Node) []string {
	out := []string{fmt.Sprintf("label=%q", label(n))}
	switch {
	case n.Filtered:
		out = append(out, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	case n.Fixed:
		out = append(out, "fillcolor=lightblue")
	case n.Created:
		out = append(out, "fillcolor=palegreen")
	}
	return out
}

// RenderSVG renders DOT source to SVG with Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
