// Package reconcile maps a freshly declared widget tree onto persistent nodes.
//
// Identity is positional. A declared child is identified by its parent, its
// index among the parent's declared children, and a key made of its type name
// plus an optional explicit key. A matching record at the same position reuses
// the node. A different key at that position destroys the old node (and its
// subtree) and creates a new one. There is no matching across reordered
// siblings: inserting a child at index 0 replaces every later sibling whose key
// no longer lines up.
//
// Node creation and destruction go through the arena's command queue, so the
// graph itself only changes when the arena's Apply runs.
package reconcile

import (
	"github.com/go-drift/perch/pkg/event"
	"github.com/go-drift/perch/pkg/node"
)

// Record maps one position under a parent to a node.
type Record struct {
	Key  string
	Node node.Handle
}

// OrphanPolicy decides what happens to records whose position was not
// declared again in a tick.
type OrphanPolicy uint8

const (
	// OrphanSweep removes records that were not resolved this tick, under
	// every parent that was itself resolved this tick, and despawns their
	// nodes at EndTick.
	OrphanSweep OrphanPolicy = iota
	// OrphanRetain keeps unresolved records until a later declaration at the
	// same position replaces them.
	OrphanRetain
)

func (p OrphanPolicy) String() string {
	if p == OrphanRetain {
		return "retain"
	}
	return "sweep"
}

// Key builds the identity key for a declared child.
func Key(typeName, key string) string {
	if key == "" {
		return typeName
	}
	return typeName + "-" + key
}

// Slot de-duplicates a subscription that widget code re-declares every tick.
// Install the subscription only when the slot is empty, then Store its ID.
type Slot struct {
	id  event.ID
	set bool
}

// Empty reports whether nothing has been stored yet.
func (s *Slot) Empty() bool {
	return !s.set
}

// Store records the subscription held by the slot, overwriting any previous one.
func (s *Slot) Store(id event.ID) {
	s.id = id
	s.set = true
}

// ID returns the stored subscription.
func (s *Slot) ID() (event.ID, bool) {
	return s.id, s.set
}

// Reconciler owns the positional mapping table.
// It is not safe for concurrent use.
type Reconciler struct {
	arena    *node.Arena
	policy   OrphanPolicy
	children map[node.Handle][]Record
	touched  map[node.Handle]struct{}
	created  map[node.Handle]struct{}
	// slots holds each node's event slots by slot ID.
	slots map[node.Handle]map[int]*Slot

	// OnRelease, when set, is called for every node whose mapping is torn
	// down, before its despawn is applied.
	OnRelease func(node.Handle)
}

// New creates a Reconciler that creates and destroys nodes in arena.
func New(arena *node.Arena, policy OrphanPolicy) *Reconciler {
	return &Reconciler{
		arena:    arena,
		policy:   policy,
		children: make(map[node.Handle][]Record),
		touched:  make(map[node.Handle]struct{}),
		created:  make(map[node.Handle]struct{}),
		slots:    make(map[node.Handle]map[int]*Slot),
	}
}

// BeginTick clears the per-tick sets.
func (r *Reconciler) BeginTick() {
	clear(r.touched)
	clear(r.created)
}

// Resolve returns the node for the child declared at index under parent.
//
// Callers declare each child once per tick, in order. Resolve never fails: when
// no record matches, a node is created.
func (r *Reconciler) Resolve(parent node.Handle, index int, typeName, key string) node.Handle {
	if index < 0 {
		index = 0
	}
	k := Key(typeName, key)
	records := r.children[parent]
	if index < len(records) && !records[index].Node.IsZero() {
		existing := records[index]
		if existing.Key == k {
			r.touched[existing.Node] = struct{}{}
			return existing.Node
		}
		r.destroy(existing.Node)
	}

	h := r.arena.Reserve()
	r.arena.Spawn(h, parent, index, typeName, key)

	records = r.children[parent]
	for len(records) <= index {
		records = append(records, Record{})
	}
	records[index] = Record{Key: k, Node: h}
	r.children[parent] = records

	r.touched[h] = struct{}{}
	r.created[h] = struct{}{}
	return h
}

// destroy forgets the mapping subtree rooted at h and queues its despawn.
func (r *Reconciler) destroy(h node.Handle) {
	r.forget(h)
	r.arena.Despawn(h)
}

func (r *Reconciler) forget(h node.Handle) {
	for _, rec := range r.children[h] {
		if !rec.Node.IsZero() {
			r.forget(rec.Node)
		}
	}
	delete(r.children, h)
	delete(r.touched, h)
	delete(r.created, h)
	delete(r.slots, h)
	if r.OnRelease != nil {
		r.OnRelease(h)
	}
}

// RemoveMapping deletes the record for n under parent, for subtrees torn down
// outside positional replacement. Records after it move up one position. It
// does not despawn n.
func (r *Reconciler) RemoveMapping(parent, n node.Handle) bool {
	records := r.children[parent]
	for i, rec := range records {
		if rec.Node == n {
			r.children[parent] = append(records[:i:i], records[i+1:]...)
			r.forget(n)
			return true
		}
	}
	return false
}

// Children returns every node currently mapped under parent, in position
// order, whether or not it was resolved this tick.
func (r *Reconciler) Children(parent node.Handle) []node.Handle {
	records := r.children[parent]
	out := make([]node.Handle, 0, len(records))
	for _, rec := range records {
		if !rec.Node.IsZero() {
			out = append(out, rec.Node)
		}
	}
	return out
}

// Touched reports whether h was resolved (created or confirmed) this tick.
func (r *Reconciler) Touched(h node.Handle) bool {
	_, ok := r.touched[h]
	return ok
}

// Created reports whether h was created this tick.
func (r *Reconciler) Created(h node.Handle) bool {
	_, ok := r.created[h]
	return ok
}

// EventSlot returns the slot for (slotID, n), creating an empty one on first
// use. Slots belong to the node and are dropped with it, so a node replaced
// after a key change starts with empty slots.
func (r *Reconciler) EventSlot(slotID int, n node.Handle) *Slot {
	byID := r.slots[n]
	if byID == nil {
		byID = make(map[int]*Slot)
		r.slots[n] = byID
	}
	s, ok := byID[slotID]
	if !ok {
		s = &Slot{}
		byID[slotID] = s
	}
	return s
}

// EndTick applies the orphan policy and returns the number of records removed.
func (r *Reconciler) EndTick() int {
	if r.policy == OrphanRetain {
		return 0
	}
	root := r.arena.Root()
	var orphans []node.Handle
	for parent, records := range r.children {
		if parent != root && !r.Touched(parent) {
			// The parent is itself an orphan and goes with its own parent.
			continue
		}
		for i, rec := range records {
			if rec.Node.IsZero() || r.Touched(rec.Node) {
				continue
			}
			orphans = append(orphans, rec.Node)
			records[i] = Record{}
		}
		for len(records) > 0 && records[len(records)-1].Node.IsZero() {
			records = records[:len(records)-1]
		}
		if len(records) == 0 {
			delete(r.children, parent)
		} else {
			r.children[parent] = records
		}
	}
	for _, h := range orphans {
		r.destroy(h)
	}
	return len(orphans)
}
