package node

import (
	"slices"

	"github.com/go-drift/perch/pkg/content"
	"github.com/go-drift/perch/pkg/style"
)

type slot struct {
	generation uint32
	node       *Node
	reserved   bool
}

type commandKind uint8

const (
	cmdSpawn commandKind = iota
	cmdDespawn
	cmdStyle
	cmdContent
	cmdMarker
)

type command struct {
	kind     commandKind
	handle   Handle
	parent   Handle
	index    int
	typeName string
	key      string
	style    style.Style
	content  content.Content
	marker   Marker
}

// Arena stores nodes and the queue of pending mutations.
// It is not safe for concurrent use.
type Arena struct {
	slots   []slot
	free    []uint32
	root    Handle
	queue   []command
	removed []Handle
	changed []Handle
	live    int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	// Slot 0 is burned so that Index 0 never aliases the zero handle.
	return &Arena{slots: make([]slot, 1, 64)}
}

// Reserve allocates a handle whose node will exist after the next Apply,
// provided a Spawn command for it is queued.
func (a *Arena) Reserve() Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.generation++
	s.reserved = true
	return Handle{Index: idx, Generation: s.generation}
}

// SpawnRoot creates the root node immediately. It is meant to be called once
// while setting up, before any tick runs.
func (a *Arena) SpawnRoot(typeName string) Handle {
	h := a.Reserve()
	a.spawn(command{handle: h, typeName: typeName})
	a.root = h
	return h
}

// Root returns the designated root handle.
func (a *Arena) Root() Handle {
	return a.root
}

// Spawn queues creation of h as the child of parent at position index.
func (a *Arena) Spawn(h, parent Handle, index int, typeName, key string) {
	a.queue = append(a.queue, command{kind: cmdSpawn, handle: h, parent: parent, index: index, typeName: typeName, key: key})
}

// Despawn queues removal of h and its whole subtree.
func (a *Arena) Despawn(h Handle) {
	a.queue = append(a.queue, command{kind: cmdDespawn, handle: h})
}

// SetStyle queues a style write.
func (a *Arena) SetStyle(h Handle, s style.Style) {
	a.queue = append(a.queue, command{kind: cmdStyle, handle: h, style: s})
}

// SetContent queues a render-content write.
func (a *Arena) SetContent(h Handle, c content.Content) {
	a.queue = append(a.queue, command{kind: cmdContent, handle: h, content: c})
}

// SetMarker queues a marker write.
func (a *Arena) SetMarker(h Handle, m Marker) {
	a.queue = append(a.queue, command{kind: cmdMarker, handle: h, marker: m})
}

// Pending returns the number of queued commands.
func (a *Arena) Pending() int {
	return len(a.queue)
}

// ApplyStats summarises one Apply.
type ApplyStats struct {
	Spawned   int
	Despawned int
	Writes    int
}

// Apply runs every queued command in order. Commands addressed to handles that
// no longer exist are dropped.
func (a *Arena) Apply() ApplyStats {
	var stats ApplyStats
	queue := a.queue
	a.queue = nil
	for _, cmd := range queue {
		switch cmd.kind {
		case cmdSpawn:
			if a.spawn(cmd) {
				stats.Spawned++
			}
		case cmdDespawn:
			stats.Despawned += a.despawn(cmd.handle)
		default:
			n, ok := a.Get(cmd.handle)
			if !ok {
				continue
			}
			switch cmd.kind {
			case cmdStyle:
				if n.Style.IsFixed() != cmd.style.IsFixed() && !n.parent.IsZero() {
					a.markChanged(n.parent)
				}
				n.Style = cmd.style
			case cmdContent:
				n.Content = cmd.content
			case cmdMarker:
				if n.Marker != cmd.marker {
					// Edges of a filtered node are not kept, so both its own
					// child list and its parent's must be linked again.
					if !n.parent.IsZero() {
						a.markChanged(n.parent)
					}
					a.markChanged(n.handle)
				}
				n.Marker = cmd.marker
			}
			stats.Writes++
		}
	}
	return stats
}

func (a *Arena) spawn(cmd command) bool {
	s := a.slot(cmd.handle)
	if s == nil || !s.reserved || s.node != nil {
		return false
	}
	var parent *Node
	if !cmd.parent.IsZero() {
		p, ok := a.Get(cmd.parent)
		if !ok {
			// The parent went away earlier in this batch.
			a.release(cmd.handle.Index)
			return false
		}
		parent = p
	}
	n := &Node{handle: cmd.handle, parent: cmd.parent, TypeName: cmd.typeName, Key: cmd.key, Content: content.None{}}
	s.node = n
	a.live++
	if parent != nil {
		idx := min(max(cmd.index, 0), len(parent.children))
		parent.children = slices.Insert(parent.children, idx, cmd.handle)
		a.markChanged(parent.handle)
	}
	return true
}

func (a *Arena) despawn(h Handle) int {
	s := a.slot(h)
	if s == nil {
		return 0
	}
	if s.node == nil {
		if s.reserved {
			// Reserved but never spawned.
			a.release(h.Index)
		}
		return 0
	}
	n := s.node
	count := 0
	for _, child := range slices.Clone(n.children) {
		count += a.despawn(child)
	}
	if p, ok := a.Get(n.parent); ok {
		if i := slices.Index(p.children, h); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
			a.markChanged(p.handle)
		}
	}
	if a.root == h {
		a.root = Handle{}
	}
	a.removed = append(a.removed, h)
	a.live--
	a.release(h.Index)
	return count + 1
}

func (a *Arena) release(idx uint32) {
	s := &a.slots[idx]
	s.node = nil
	s.reserved = false
	a.free = append(a.free, idx)
}

func (a *Arena) slot(h Handle) *slot {
	if h.IsZero() || int(h.Index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.Index]
	if s.generation != h.Generation {
		return nil
	}
	return s
}

func (a *Arena) markChanged(h Handle) {
	if !slices.Contains(a.changed, h) {
		a.changed = append(a.changed, h)
	}
}

// Get returns the live node for h.
func (a *Arena) Get(h Handle) (*Node, bool) {
	s := a.slot(h)
	if s == nil || s.node == nil {
		return nil, false
	}
	return s.node, true
}

// Contains reports whether h refers to a live node.
func (a *Arena) Contains(h Handle) bool {
	_, ok := a.Get(h)
	return ok
}

// Len returns the number of live nodes.
func (a *Arena) Len() int {
	return a.live
}

// TakeChanged returns the nodes whose child lists (or whose children's
// position mode or marker) changed since the previous call, and clears the set.
func (a *Arena) TakeChanged() []Handle {
	changed := a.changed
	a.changed = nil
	return changed
}

// DrainRemoved returns the handles despawned since the previous call.
func (a *Arena) DrainRemoved() []Handle {
	removed := a.removed
	a.removed = nil
	return removed
}

// Walk visits the subtree rooted at h in pre-order. Returning false from fn
// skips that node's children.
func (a *Arena) Walk(h Handle, fn func(*Node) bool) {
	n, ok := a.Get(h)
	if !ok {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		a.Walk(child, fn)
	}
}
