// Package ui drives one tick of the retained-mode pipeline: it walks a freshly
// declared Widget tree, reconciles it against the persistent node arena,
// applies the queued graph changes and lays the result out.
package ui

import (
	"github.com/go-drift/perch/pkg/content"
	"github.com/go-drift/perch/pkg/event"
	"github.com/go-drift/perch/pkg/node"
	"github.com/go-drift/perch/pkg/style"
)

// Widget is one declared element of the UI. Widgets are rebuilt every tick
// and only live until the tick that declared them ends.
type Widget struct {
	// Type names the widget kind. Together with Key it forms the positional
	// identity of the node the widget maps to.
	Type string
	Key  string

	Style   style.Style
	Content content.Content
	// Marker tags internal widgets the layout pipeline must skip.
	Marker node.Marker

	Children []Widget
	// Build declares further children after Children. It receives the
	// widget's own context, so its declarations are nested under this node.
	Build func(ctx *Context)

	// Handlers subscribes the node to named events. A handler is installed
	// once per node and replaced in place on later ticks.
	Handlers map[string]event.Handler
}

// Keyed returns a copy of w with its key set.
func (w Widget) Keyed(key string) Widget {
	w.Key = key
	return w
}

// Box declares a plain container.
func Box(s style.Style, children ...Widget) Widget {
	return Widget{Type: "box", Style: s, Children: children}
}

// Label declares a wrapped text leaf.
func Label(s style.Style, text string) Widget {
	return Widget{Type: "label", Style: s, Content: content.Text{Value: text, WordWrap: true}}
}

// Picture declares an image leaf.
func Picture(s style.Style, asset string) Widget {
	return Widget{Type: "image", Style: s, Content: content.Image{Asset: asset}}
}
