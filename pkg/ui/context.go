package ui

import (
	"fmt"
	"slices"

	"github.com/go-drift/perch/pkg/errors"
	"github.com/go-drift/perch/pkg/node"
)

// Context is the explicit declaration state for one parent: its handle and
// the position of the next declared child.
type Context struct {
	rt     *Runtime
	parent node.Handle
	next   int
}

// Parent returns the handle children declared through ctx are attached to.
func (ctx *Context) Parent() node.Handle {
	return ctx.parent
}

// Index returns the position the next declared child will take.
func (ctx *Context) Index() int {
	return ctx.next
}

// IsNew reports whether h was created during the current tick.
func (ctx *Context) IsNew(h node.Handle) bool {
	return ctx.rt.rec.Created(h)
}

// Declare resolves w at the next position under the context's parent, queues
// its attached state and declares its subtree. It returns the node handle w
// maps to.
func (ctx *Context) Declare(w Widget) node.Handle {
	index := ctx.next
	ctx.next++
	h := ctx.rt.rec.Resolve(ctx.parent, index, w.Type, w.Key)
	ctx.rt.attach(h, w)
	ctx.rt.declareChildren(h, w)
	return h
}

// attach queues writes for state that differs from the node's current state.
// Nodes created this tick have no state yet and get every write.
func (r *Runtime) attach(h node.Handle, w Widget) {
	n, exists := r.arena.Get(h)
	if !exists || n.Style != w.Style {
		r.arena.SetStyle(h, w.Style)
	}
	if !exists || n.Content != w.Content {
		r.arena.SetContent(h, w.Content)
	}
	if !exists || n.Marker != w.Marker {
		r.arena.SetMarker(h, w.Marker)
	}
	r.subscribe(h, w)
}

func (r *Runtime) declareChildren(h node.Handle, w Widget) {
	child := &Context{rt: r, parent: h}
	for _, c := range w.Children {
		child.Declare(c)
	}
	if w.Build != nil {
		r.build(child, w)
	}
}

// build runs w.Build, reporting a panic instead of aborting the tick.
// Children declared before the panic keep their nodes.
func (r *Runtime) build(ctx *Context, w Widget) {
	errors.Guard(func() { w.Build(ctx) }, func(rec any, stack string) {
		r.declareErrors++
		errors.ReportDeclareError(&errors.DeclareError{
			Widget:     w.Type,
			Node:       ctx.parent.String(),
			Recovered:  rec,
			StackTrace: stack,
		})
	})
}

// subscribe installs w's handlers through the node's event slots. Names are
// visited in sorted order so slot IDs are assigned deterministically.
func (r *Runtime) subscribe(h node.Handle, w Widget) {
	if len(w.Handlers) == 0 {
		return
	}
	names := make([]string, 0, len(w.Handlers))
	for name := range w.Handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		handler := w.Handlers[name]
		if handler == nil {
			continue
		}
		slot := r.rec.EventSlot(r.slotID(name), h)
		if id, ok := slot.ID(); ok {
			if r.bus.Replace(id, handler) {
				continue
			}
		}
		slot.Store(r.bus.Subscribe(h, name, handler))
	}
}

func (r *Runtime) slotID(name string) int {
	id, ok := r.slotIDs[name]
	if !ok {
		id = len(r.slotIDs) + 1
		r.slotIDs[name] = id
	}
	return id
}

func (ctx *Context) String() string {
	return fmt.Sprintf("ui.Context{parent: %v, next: %d}", ctx.parent, ctx.next)
}
