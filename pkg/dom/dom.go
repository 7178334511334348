// Package dom provides small navigation and mutation helpers over the
// golang.org/x/net/html node tree.
//
// The server-side renderer and the hydration annotation core both work
// directly on *html.Node values. This package keeps the handful of
// operations they share in one place: creating nodes, reading and writing
// attributes, and applying firstChild/nextSibling navigation steps.
package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Step is a single navigation instruction from one DOM node to another.
// Paths recorded in hydration annotations are sequences of these steps.
type Step string

const (
	// StepFirstChild descends from a node to its first child.
	StepFirstChild Step = "firstChild"

	// StepNextSibling moves from a node to its next sibling.
	StepNextSibling Step = "nextSibling"
)

// Apply walks from start through the given steps and returns the node
// reached. It returns nil as soon as a step runs off the tree (no first
// child or no next sibling at the current position).
func Apply(start *html.Node, steps []Step) *html.Node {
	n := start
	for _, s := range steps {
		if n == nil {
			return nil
		}
		switch s {
		case StepFirstChild:
			n = n.FirstChild
		case StepNextSibling:
			n = n.NextSibling
		default:
			return nil
		}
	}
	return n
}

// ParseSteps parses the step suffix of a path string (the tokens after the
// anchor) into Steps. Any unknown token fails the whole parse with
// ok=false.
func ParseSteps(tokens []string) ([]Step, bool) {
	steps := make([]Step, 0, len(tokens))
	for _, tok := range tokens {
		switch Step(tok) {
		case StepFirstChild, StepNextSibling:
			steps = append(steps, Step(tok))
		default:
			return nil, false
		}
	}
	return steps, true
}

// Element creates a detached element node with the given tag name.
func Element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
		Attr:     attrs,
	}
}

// Text creates a detached text node.
func Text(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// Comment creates a detached comment node. Comment nodes anchor view
// containers and element containers in server-rendered output.
func Comment(data string) *html.Node {
	return &html.Node{Type: html.CommentNode, Data: data}
}

// SetAttribute sets an attribute on an element node, replacing any
// existing attribute with the same key.
func SetAttribute(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// GetAttribute returns the value of the named attribute and whether it
// was present.
func GetAttribute(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// InsertBefore inserts child under parent immediately before ref.
// A nil ref appends child as the last child of parent.
func InsertBefore(parent, child, ref *html.Node) {
	if ref == nil {
		parent.AppendChild(child)
		return
	}
	parent.InsertBefore(child, ref)
}

// FindElement returns the first element (in document order) under root
// for which match returns true, or nil if none matches.
func FindElement(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	if root.Type == html.ElementNode && match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := FindElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

// FindByTag returns the first element under root with the given tag name.
func FindByTag(root *html.Node, tag string) *html.Node {
	return FindElement(root, func(n *html.Node) bool {
		return strings.EqualFold(n.Data, tag)
	})
}

// WalkElements visits every element under root in document order. The
// visit function returning false stops the walk.
func WalkElements(root *html.Node, visit func(*html.Node) bool) {
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && !visit(n) {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	if root != nil {
		walk(root)
	}
}
