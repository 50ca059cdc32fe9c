// Package inspect exports the runtime's node tree for debugging: JSON
// snapshots, Graphviz diagrams and an HTTP server that serves both.
package inspect

import (
	"encoding/json"
	"math"

	"github.com/go-drift/perch/pkg/box"
	"github.com/go-drift/perch/pkg/content"
	"github.com/go-drift/perch/pkg/geometry"
	"github.com/go-drift/perch/pkg/node"
	"github.com/go-drift/perch/pkg/ui"
)

// maxTreeDepth limits recursion on malformed trees.
const maxTreeDepth = 500

// SafeFloat wraps a float64 to handle Inf/NaN in JSON encoding.
type SafeFloat float64

func (f SafeFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 1) {
		return []byte(`"Infinity"`), nil
	}
	if math.IsInf(v, -1) {
		return []byte(`"-Infinity"`), nil
	}
	if math.IsNaN(v) {
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

// SafeSize is a JSON-safe geometry.Size.
type SafeSize struct {
	Width  SafeFloat `json:"width"`
	Height SafeFloat `json:"height"`
}

// SafeOffset is a JSON-safe geometry.Offset.
type SafeOffset struct {
	X SafeFloat `json:"x"`
	Y SafeFloat `json:"y"`
}

func safeSize(s geometry.Size) SafeSize {
	return SafeSize{Width: SafeFloat(s.Width), Height: SafeFloat(s.Height)}
}

func safeOffset(o geometry.Offset) SafeOffset {
	return SafeOffset{X: SafeFloat(o.X), Y: SafeFloat(o.Y)}
}

// Node is one serialized node.
type Node struct {
	Handle      string     `json:"handle"`
	Type        string     `json:"type"`
	Key         string     `json:"key,omitempty"`
	Content     string     `json:"content,omitempty"`
	Filtered    bool       `json:"filtered,omitempty"`
	Fixed       bool       `json:"fixed,omitempty"`
	Laid        bool       `json:"laidOut"`
	Order       uint32     `json:"order"`
	Location    SafeOffset `json:"location"`
	Size        SafeSize   `json:"size"`
	ContentSize SafeSize   `json:"contentSize"`
	New         bool       `json:"new,omitempty"`
	Created     bool       `json:"created,omitempty"`
	Changed     bool       `json:"changed,omitempty"`
	Depth       int        `json:"depth"`
	Children    []Node     `json:"children,omitempty"`
}

// Tree is a snapshot of the whole node graph.
type Tree struct {
	Tick  uint64 `json:"tick"`
	Nodes int    `json:"nodes"`
	Root  *Node  `json:"root,omitempty"`
}

// Snapshot captures rt's node graph as left by the last tick.
func Snapshot(rt *ui.Runtime) Tree {
	var tree Tree
	rt.View(func(v ui.View) {
		tree.Tick = v.Tick
		tree.Nodes = v.Arena.Len()
		if n, ok := serialize(v, v.Arena.Root(), 0); ok {
			tree.Root = &n
		}
	})
	return tree
}

func serialize(v ui.View, h node.Handle, depth int) (Node, bool) {
	n, ok := v.Arena.Get(h)
	if !ok || depth > maxTreeDepth {
		return Node{}, false
	}
	out := Node{
		Handle:   h.String(),
		Type:     n.TypeName,
		Key:      n.Key,
		Filtered: n.Filtered(),
		Fixed:    n.Style.IsFixed(),
		Laid:     n.HasLayout,
		New:      v.IsNew(h),
		Created:  v.Created(h),
		Changed:  n.LayoutChanged(),
		Depth:    depth,
	}
	if n.Content != nil {
		out.Content = content.KindOf(n.Content).String()
	}
	if n.HasLayout {
		setRecord(&out, n.Layout)
	}
	for _, c := range n.Children() {
		if child, ok := serialize(v, c, depth+1); ok {
			out.Children = append(out.Children, child)
		}
	}
	return out, true
}

func setRecord(out *Node, rec box.Record) {
	out.Order = rec.Order
	out.Location = safeOffset(rec.Location)
	out.Size = safeSize(rec.Size)
	out.ContentSize = safeSize(rec.ContentSize)
}

// Walk visits every node of the tree in pre-order.
func (t Tree) Walk(fn func(n *Node)) {
	if t.Root == nil {
		return
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		fn(n)
		for i := range n.Children {
			walk(&n.Children[i])
		}
	}
	walk(t.Root)
}
