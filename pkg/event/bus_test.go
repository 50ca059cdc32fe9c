package event

import (
	"testing"

	"github.com/go-drift/perch/pkg/node"
)

var (
	nodeA = node.Handle{Index: 1, Generation: 1}
	nodeB = node.Handle{Index: 2, Generation: 1}
)

func TestBus_EmitRoutesByNodeAndName(t *testing.T) {
	b := NewBus()
	var clicks, hovers int
	b.Subscribe(nodeA, "click", func(any) { clicks++ })
	b.Subscribe(nodeA, "hover", func(any) { hovers++ })
	b.Subscribe(nodeB, "click", func(any) { t.Error("wrong node") })

	if n := b.Emit(nodeA, "click", nil); n != 1 {
		t.Errorf("Emit ran %d handlers, want 1", n)
	}
	if clicks != 1 || hovers != 0 {
		t.Errorf("clicks=%d hovers=%d", clicks, hovers)
	}
}

func TestBus_ReplaceKeepsSingleSubscription(t *testing.T) {
	b := NewBus()
	var got string
	id := b.Subscribe(nodeA, "click", func(any) { got = "old" })
	if !b.Replace(id, func(any) { got = "new" }) {
		t.Fatal("Replace returned false for live id")
	}
	b.Emit(nodeA, "click", nil)
	if got != "new" {
		t.Errorf("handler = %q, want new", got)
	}
	if b.Count(nodeA) != 1 {
		t.Errorf("Count = %d, want 1", b.Count(nodeA))
	}
}

func TestBus_UnsubscribeAndRemoveNode(t *testing.T) {
	b := NewBus()
	id := b.Subscribe(nodeA, "click", func(any) {})
	b.Subscribe(nodeA, "click", func(any) {})
	b.Unsubscribe(id)
	if b.Count(nodeA) != 1 {
		t.Errorf("Count after Unsubscribe = %d", b.Count(nodeA))
	}
	b.RemoveNode(nodeA)
	if b.Count(nodeA) != 0 {
		t.Errorf("Count after RemoveNode = %d", b.Count(nodeA))
	}
	if b.Replace(id, nil) {
		t.Error("Replace succeeded on removed id")
	}
	if n := b.Emit(nodeA, "click", nil); n != 0 {
		t.Errorf("Emit ran %d handlers after removal", n)
	}
}

func TestBus_PayloadDelivered(t *testing.T) {
	b := NewBus()
	var got any
	b.Subscribe(nodeA, "change", func(p any) { got = p })
	b.Emit(nodeA, "change", 0.5)
	if got != 0.5 {
		t.Errorf("payload = %v", got)
	}
}

func TestBus_EmitBubblingWalksPath(t *testing.T) {
	nodeC := node.Handle{Index: 3, Generation: 1}
	b := NewBus()
	var visits []node.Handle
	record := func(payload any) {
		ev := payload.(*Bubble)
		if ev.Target != nodeA || ev.Payload != "v" {
			t.Errorf("event = %+v", ev)
		}
		visits = append(visits, ev.Current)
	}
	b.Subscribe(nodeA, "change", record)
	b.Subscribe(nodeC, "change", record)
	b.Subscribe(nodeC, "other", func(any) { t.Error("wrong event name") })

	if n := b.EmitBubbling([]node.Handle{nodeA, nodeB, nodeC}, "change", "v"); n != 2 {
		t.Errorf("EmitBubbling ran %d handlers, want 2", n)
	}
	if len(visits) != 2 || visits[0] != nodeA || visits[1] != nodeC {
		t.Errorf("visits = %v, want [A C]", visits)
	}
}

func TestBus_EmitBubblingStop(t *testing.T) {
	b := NewBus()
	var siblings, ancestors int
	b.Subscribe(nodeA, "change", func(p any) { p.(*Bubble).Stop() })
	b.Subscribe(nodeA, "change", func(any) { siblings++ })
	b.Subscribe(nodeB, "change", func(any) { ancestors++ })

	if n := b.EmitBubbling([]node.Handle{nodeA, nodeB}, "change", nil); n != 2 {
		t.Errorf("EmitBubbling ran %d handlers, want 2", n)
	}
	if siblings != 1 {
		t.Error("handlers on the stopping node should all run")
	}
	if ancestors != 0 {
		t.Error("Stop should keep the event from reaching ancestors")
	}
	if n := b.EmitBubbling(nil, "change", nil); n != 0 {
		t.Errorf("empty path ran %d handlers", n)
	}
}
