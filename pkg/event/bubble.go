package event

import "github.com/go-drift/perch/pkg/node"

// Bubble is the payload handlers receive for an event that travels from its
// target up through the target's ancestors.
type Bubble struct {
	Target  node.Handle
	Current node.Handle
	Payload any

	stopped bool
}

// Stop ends propagation once the handlers of the current node have run.
func (e *Bubble) Stop() { e.stopped = true }

// Stopped reports whether a handler called Stop.
func (e *Bubble) Stopped() bool { return e.stopped }

// EmitBubbling delivers a *Bubble wrapping payload to the handlers for name on
// each node of path in turn. path starts at the target and lists its
// ancestors nearest first. It returns how many handlers ran.
func (b *Bus) EmitBubbling(path []node.Handle, name string, payload any) int {
	if len(path) == 0 {
		return 0
	}
	ev := &Bubble{Target: path[0], Payload: payload}
	ran := 0
	for _, n := range path {
		ev.Current = n
		for _, h := range b.handlers(n, name) {
			h(ev)
			ran++
		}
		if ev.stopped {
			break
		}
	}
	return ran
}
