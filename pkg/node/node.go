// Package node owns the persistent node graph.
//
// Nodes live in an Arena and are addressed by generation-checked Handles.
// Structural changes (spawn, despawn) and attached-state writes are queued as
// commands and only become visible when Apply runs. Apply is the barrier
// between reconciliation and layout: readers never see a half-applied graph.
package node

import (
	"github.com/go-drift/perch/pkg/box"
	"github.com/go-drift/perch/pkg/content"
	"github.com/go-drift/perch/pkg/style"
)

// Marker tags internal nodes that the layout pipeline must skip.
type Marker uint8

const (
	MarkerNone Marker = iota
	// MarkerState tags nodes that hold widget state rather than a box.
	MarkerState
	// MarkerPrevious tags previous-frame snapshot nodes.
	MarkerPrevious
)

// Node is one persistent node and its attached state.
type Node struct {
	handle   Handle
	parent   Handle
	children []Handle

	TypeName string
	Key      string
	Style    style.Style
	Content  content.Content
	Marker   Marker

	// Layout is the current tick's record; PreviousLayout is one tick stale.
	Layout         box.Record
	PreviousLayout box.Record
	// HasLayout is set once the pipeline has produced a record for the node.
	HasLayout bool
	// HasPreviousLayout is set from the node's second layout onwards.
	HasPreviousLayout bool
}

// Handle returns the node's own handle.
func (n *Node) Handle() Handle {
	return n.handle
}

// Parent returns the parent handle, or the zero handle for the root.
func (n *Node) Parent() Handle {
	return n.parent
}

// Children returns the ordered child handles. The slice must not be modified.
func (n *Node) Children() []Handle {
	return n.children
}

// Filtered reports whether the pipeline should treat the node as absent.
func (n *Node) Filtered() bool {
	return n.Marker != MarkerNone
}

// LayoutChanged reports whether the current record differs from the previous
// tick's, counting a node's first layout as a change.
func (n *Node) LayoutChanged() bool {
	if !n.HasLayout {
		return false
	}
	return !n.HasPreviousLayout || !n.Layout.Equal(n.PreviousLayout)
}
