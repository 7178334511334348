package view

import (
	"golang.org/x/net/html"
)

// CollectNatives gathers the root-level DOM nodes rendered for the
// template node chain starting at t within the live view v, in document
// order. This is the native-node collector the container serializer uses
// to count the root nodes of an embedded view.
//
// The walk follows Next links only; it descends into element containers
// and view containers because their rendered nodes are siblings of the
// chain at the DOM level, but it never descends into plain elements
// (their children are not root-level nodes).
func CollectNatives(t *TNode, v *View) []*html.Node {
	var out []*html.Node
	for ; t != nil; t = t.Next {
		out = appendNatives(out, t, v)
	}
	return out
}

func appendNatives(out []*html.Node, t *TNode, v *View) []*html.Node {
	switch t.Type {
	case NodeElement, NodeText, NodeI18n:
		if n, ok := v.Slot(t.Index).(*html.Node); ok && n != nil {
			out = append(out, n)
		}
	case NodeElementContainer:
		// Children render first, then the delimiting comment anchor.
		for c := t.Child; c != nil; c = c.Next {
			out = appendNatives(out, c, v)
		}
		if n, ok := v.Slot(t.Index).(*html.Node); ok && n != nil {
			out = append(out, n)
		}
	case NodeContainer:
		// Embedded views render before the container anchor.
		if c, ok := v.Slot(t.Index).(*Container); ok && c != nil {
			for _, raw := range c.Views {
				ev := Unwrap(raw)
				if ev == nil {
					continue
				}
				out = append(out, CollectNatives(ev.TView.FirstChild, ev)...)
			}
			if c.Anchor != nil {
				out = append(out, c.Anchor)
			}
		}
	case NodeProjection:
		// Projected content belongs to the declaring component; from the
		// projecting view's perspective the rendered nodes are whatever
		// the renderer stored at the marker slot, if anything.
		if n, ok := v.Slot(t.Index).(*html.Node); ok && n != nil {
			out = append(out, n)
		}
	}
	return out
}
