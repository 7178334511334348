// Package viewtest builds consistent DOM/view-tree pairs for tests.
//
// The production renderer populates views and the DOM together; tests
// need the same consistency without dragging the whole renderer in. The
// builder here runs a template body function twice: once to define the
// shared static TView (so every instance of a template reuses the same
// TNodes, exactly like the runtime), and once per instantiation to fill
// slot values and insert DOM nodes.
//
// Template bodies capture the TNodes they declare through closure
// variables, which is how tests reach per-instance state afterwards:
//
//	var anchor *view.TNode
//	row := viewtest.NewTemplate(func(b *viewtest.B) {
//	    b.Element("li", func(b *viewtest.B) {
//	        b.Text("item")
//	    })
//	})
//	list := viewtest.Define("app-list", func(b *viewtest.B) {
//	    b.Element("ul", func(b *viewtest.B) {
//	        anchor = b.ViewContainer(row)
//	    })
//	})
//
//	v := list.Mount(host)
//	cont := v.Slot(anchor.Index).(*view.Container)
//	row.Instantiate(cont, v)
package viewtest

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/newbpydev/bubblyweb/pkg/dom"
	"github.com/newbpydev/bubblyweb/pkg/view"
)

// Template is an embedded template: one shared TView, instantiable any
// number of times into view containers.
type Template struct {
	tview *view.TView
	body  func(*B)
}

// NewTemplate declares a template from a body function. The body runs
// once, against a scratch document, when the TView is first needed.
func NewTemplate(body func(*B)) *Template {
	return &Template{body: body}
}

// TView returns the template's shared static view, defining it on first
// use.
func (t *Template) TView() *view.TView {
	if t.tview != nil {
		return t.tview
	}
	tv := &view.TView{Nodes: make([]*view.TNode, view.HeaderOffset)}
	t.tview = tv
	scratch := dom.Element("div")
	v := &view.View{TView: tv, Host: scratch, Slots: make([]any, view.HeaderOffset)}
	t.body(&B{v: v, tv: tv, defining: true, next: view.HeaderOffset, domParent: scratch})
	return tv
}

// Instantiate creates one embedded view of the template inside a
// container, inserting its DOM before the container anchor and
// appending the view to the container's list.
func (t *Template) Instantiate(c *view.Container, declaring *view.View) *view.View {
	tv := t.TView()
	v := &view.View{TView: tv, Host: declaring.Host, Slots: make([]any, view.HeaderOffset, tv.SlotCount())}
	t.body(&B{v: v, tv: tv, next: view.HeaderOffset, domParent: c.Anchor.Parent, domBefore: c.Anchor})
	padSlots(v, tv)
	c.Views = append(c.Views, v)
	return v
}

// Component is a component definition: a selector plus a body template
// shared by every instance.
type Component struct {
	Selector string
	tmpl     *Template
}

// Define declares a component from its selector and template body.
func Define(selector string, body func(*B)) *Component {
	return &Component{Selector: selector, tmpl: NewTemplate(body)}
}

// Mount instantiates the component's view against a host element,
// rendering its DOM as children of the host.
func (c *Component) Mount(host *html.Node) *view.View {
	tv := c.tmpl.TView()
	v := &view.View{TView: tv, Host: host, Selector: c.Selector, Slots: make([]any, view.HeaderOffset, tv.SlotCount())}
	c.tmpl.body(&B{v: v, tv: tv, next: view.HeaderOffset, domParent: host})
	padSlots(v, tv)
	return v
}

// MountInContainer creates a host element for the component before the
// container anchor and mounts the component there, the way dynamically
// created components attach. With wrap set, the view is appended through
// the root-view wrapper.
func (c *Component) MountInContainer(cont *view.Container, wrap bool) *view.View {
	host := dom.Element(c.Selector)
	dom.InsertBefore(cont.Anchor.Parent, host, cont.Anchor)
	v := c.Mount(host)
	if wrap {
		cont.Views = append(cont.Views, &view.RootView{View: v})
	} else {
		cont.Views = append(cont.Views, v)
	}
	return v
}

// B is the per-instantiation builder handed to template bodies. In
// defining mode it materializes TNodes; in replay mode it consumes the
// already-defined nodes, panicking on any structural drift between the
// body's runs.
type B struct {
	v        *view.View
	tv       *view.TView
	defining bool
	next     int

	parentTN  *view.TNode
	lastTN    *view.TNode
	domParent *html.Node
	domBefore *html.Node
}

// Element declares an element node; kids (optional) declares its
// children.
func (b *B) Element(tag string, kids func(*B)) *view.TNode {
	tn := b.declare(view.NodeElement, tag)
	el := dom.Element(tag)
	dom.InsertBefore(b.domParent, el, b.domBefore)
	b.v.Slots[tn.Index] = el
	if kids != nil {
		b.nest(tn, el, nil, kids)
	}
	return tn
}

// Text declares a text node. The text may vary between instances; only
// the structure is shared.
func (b *B) Text(text string) *view.TNode {
	tn := b.declare(view.NodeText, "#text")
	n := dom.Text(text)
	dom.InsertBefore(b.domParent, n, b.domBefore)
	b.v.Slots[tn.Index] = n
	return tn
}

// LocalRef declares a local-reference slot: no template node, no DOM.
func (b *B) LocalRef() {
	idx := b.next
	b.next++
	if b.defining {
		b.tv.Nodes = append(b.tv.Nodes, nil)
	}
	b.growSlots(idx)
}

// ElementContainer declares an <ng-container> grouping: its children
// render in place, followed by the delimiting comment anchor.
func (b *B) ElementContainer(kids func(*B)) *view.TNode {
	tn := b.declare(view.NodeElementContainer, "ng-container")
	if kids != nil {
		b.nest(tn, b.domParent, b.domBefore, kids)
	}
	anchor := dom.Comment("ngcontainer")
	dom.InsertBefore(b.domParent, anchor, b.domBefore)
	b.v.Slots[tn.Index] = anchor
	return tn
}

// ViewContainer declares a view container anchor. The given templates
// are registered as the templates declared at this anchor (structural
// directives declare exactly one).
func (b *B) ViewContainer(tmpls ...*Template) *view.TNode {
	tn := b.declare(view.NodeContainer, "container")
	if b.defining {
		for _, t := range tmpls {
			tn.TViews = append(tn.TViews, t.TView())
		}
	}
	anchor := dom.Comment("container")
	dom.InsertBefore(b.domParent, anchor, b.domBefore)
	b.v.Slots[tn.Index] = &view.Container{Anchor: anchor}
	return tn
}

// Projection declares an <ng-content> insertion point. It renders no
// DOM of its own.
func (b *B) Projection() *view.TNode {
	return b.declare(view.NodeProjection, "ng-content")
}

// Child declares a nested component host: an element named after the
// component's selector whose slot holds the mounted child view.
func (b *B) Child(c *Component) *view.TNode {
	tn := b.declare(view.NodeElement, c.Selector)
	if b.defining {
		tn.ComponentSelector = c.Selector
	}
	host := dom.Element(c.Selector)
	dom.InsertBefore(b.domParent, host, b.domBefore)
	b.v.Slots[tn.Index] = c.Mount(host)
	return tn
}

// Projected declares content projected into a previously declared child
// host: the nodes occupy slots of the current view, but their DOM lands
// inside the child's host element, and the host node records them as its
// projection heads.
func (b *B) Projected(host *view.TNode, kids func(*B)) {
	childView := view.Unwrap(b.v.Slot(host.Index))
	if childView == nil || childView.Host == nil {
		panic(fmt.Sprintf("viewtest: Projected before Child for slot %d", host.Index))
	}
	start := b.next
	b.nest(host, childView.Host, nil, kids)
	if b.defining {
		head := b.tv.Nodes[start]
		if head == nil {
			panic("viewtest: Projected body declared no nodes")
		}
		host.Projection = []*view.TNode{head}
	}
}

// declare consumes the next slot: appending a fresh TNode in defining
// mode, replaying the recorded one otherwise.
func (b *B) declare(typ view.NodeType, value string) *view.TNode {
	idx := b.next
	b.next++
	var tn *view.TNode
	if b.defining {
		tn = &view.TNode{Type: typ, Index: idx, Value: value, Parent: b.parentTN}
		b.tv.Nodes = append(b.tv.Nodes, tn)
		switch {
		case b.lastTN != nil:
			b.lastTN.Next = tn
		case b.parentTN != nil:
			b.parentTN.Child = tn
		case b.tv.FirstChild == nil:
			b.tv.FirstChild = tn
		}
	} else {
		tn = b.tv.NodeAt(idx)
		if tn == nil || tn.Type != typ {
			panic(fmt.Sprintf("viewtest: replay drift at slot %d: want %v %q", idx, typ, value))
		}
	}
	b.lastTN = tn
	b.growSlots(idx)
	return tn
}

// nest runs kids with the template parent and DOM insertion point
// switched, restoring the previous level afterwards.
func (b *B) nest(tn *view.TNode, domParent, domBefore *html.Node, kids func(*B)) {
	savedParent, savedLast := b.parentTN, b.lastTN
	savedDomP, savedDomB := b.domParent, b.domBefore
	b.parentTN, b.lastTN = tn, nil
	b.domParent, b.domBefore = domParent, domBefore
	kids(b)
	b.parentTN, b.lastTN = savedParent, savedLast
	b.domParent, b.domBefore = savedDomP, savedDomB
}

func (b *B) growSlots(idx int) {
	for len(b.v.Slots) <= idx {
		b.v.Slots = append(b.v.Slots, nil)
	}
}

func padSlots(v *view.View, tv *view.TView) {
	for len(v.Slots) < tv.SlotCount() {
		v.Slots = append(v.Slots, nil)
	}
}

// NewDocument parses a minimal HTML shell and returns the document and
// its body element, the usual mounting ground for test hosts.
func NewDocument() (*html.Node, *html.Node) {
	doc, err := html.Parse(strings.NewReader("<!doctype html><html><head></head><body></body></html>"))
	if err != nil {
		panic(err)
	}
	body := dom.FindElement(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Body
	})
	return doc, body
}
