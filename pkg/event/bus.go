// Package event routes named events to handlers subscribed on nodes.
package event

import (
	"sync"

	"github.com/google/uuid"

	"github.com/go-drift/perch/pkg/node"
)

// ID identifies one subscription.
type ID = uuid.UUID

// Handler receives an event payload.
type Handler func(payload any)

type subscription struct {
	node    node.Handle
	name    string
	handler Handler
}

// Bus holds subscriptions keyed by node and event name.
// It is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	subs   map[ID]*subscription
	byNode map[node.Handle][]ID
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs:   make(map[ID]*subscription),
		byNode: make(map[node.Handle][]ID),
	}
}

// Subscribe registers handler for events named name on n.
func (b *Bus) Subscribe(n node.Handle, name string, handler Handler) ID {
	id := uuid.New()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[id] = &subscription{node: n, name: name, handler: handler}
	b.byNode[n] = append(b.byNode[n], id)
	return id
}

// Replace swaps the handler of an existing subscription. It reports false if
// id is unknown.
func (b *Bus) Replace(id ID, handler Handler) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub, ok := b.subs[id]
	if !ok {
		return false
	}
	sub.handler = handler
	return true
}

// Unsubscribe removes one subscription.
func (b *Bus) Unsubscribe(id ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	ids := b.byNode[sub.node]
	for i, other := range ids {
		if other == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(b.byNode, sub.node)
	} else {
		b.byNode[sub.node] = ids
	}
}

// RemoveNode drops every subscription on n.
func (b *Bus) RemoveNode(n node.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range b.byNode[n] {
		delete(b.subs, id)
	}
	delete(b.byNode, n)
}

// Emit calls every handler on n subscribed to name, in subscription order,
// and returns how many ran. Handlers run without the bus lock held.
func (b *Bus) Emit(n node.Handle, name string, payload any) int {
	handlers := b.handlers(n, name)
	for _, h := range handlers {
		h(payload)
	}
	return len(handlers)
}

func (b *Bus) handlers(n node.Handle, name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Handler
	for _, id := range b.byNode[n] {
		if sub := b.subs[id]; sub != nil && sub.name == name && sub.handler != nil {
			out = append(out, sub.handler)
		}
	}
	return out
}

// Count returns the number of subscriptions on n.
func (b *Bus) Count(n node.Handle) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byNode[n])
}
