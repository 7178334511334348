// Package view defines the server-side view tree that the renderer
// populates and the hydration annotation core walks.
//
// A View is an ordered sequence of slots. The first HeaderOffset slots are
// reserved for runtime bookkeeping; template-declared nodes occupy the
// slots from HeaderOffset up to the view's binding range. Each data slot
// holds one of:
//
//   - a DOM node (*html.Node) rendered for an element or text node,
//   - a view container (*Container) anchored at a comment node,
//   - a nested component view (*View) when the slot's element hosts a
//     child component,
//   - nil for local-reference placeholders.
//
// The static shape of a view is described separately by a TView and its
// TNode records, which are shared between all instances of the same
// template. The annotation core treats both as read-only and accesses
// them only through the query functions exported here, so knowledge of
// the slot layout stays inside this package.
package view

import (
	"fmt"

	"golang.org/x/net/html"
)

// HeaderOffset is the index of the first template-declared slot in every
// view. Slots below it are reserved for runtime bookkeeping and never
// appear in hydration annotations; annotation indices are always relative
// to this offset.
const HeaderOffset = 4

// NodeType classifies a TNode within its template.
type NodeType int

const (
	// NodeElement is a plain element node.
	NodeElement NodeType = iota
	// NodeText is a text node.
	NodeText
	// NodeElementContainer is a logical <ng-container> grouping with no
	// wrapping element, delimited in the DOM by a comment anchor.
	NodeElementContainer
	// NodeContainer is a view container anchor (structural directive or
	// template outlet target).
	NodeContainer
	// NodeProjection is a content projection marker (<ng-content>).
	NodeProjection
	// NodeI18n is an i18n block marker whose children are created by
	// i18n create-opcodes.
	NodeI18n
)

// String returns a short name for the node type, used in error messages.
func (t NodeType) String() string {
	switch t {
	case NodeElement:
		return "element"
	case NodeText:
		return "text"
	case NodeElementContainer:
		return "element-container"
	case NodeContainer:
		return "container"
	case NodeProjection:
		return "projection"
	case NodeI18n:
		return "i18n"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// I18nOp is a single i18n create-opcode: it creates one DOM node at Slot
// under the element at ParentSlot. A ParentSlot below HeaderOffset means
// the node was created directly under the component host.
type I18nOp struct {
	Slot       int
	ParentSlot int
}

// TNode is the static per-slot metadata for one template node. TNodes are
// shared between every instance of the template that declared them.
type TNode struct {
	// Type classifies the node.
	Type NodeType

	// Index is the absolute slot index of the node in its view,
	// HeaderOffset-based.
	Index int

	// Value is the tag name for elements, the component selector for
	// component hosts, or a debug label otherwise.
	Value string

	// Parent is the enclosing template node, nil for view roots.
	Parent *TNode

	// Child is the first child in template order.
	Child *TNode

	// Next is the following sibling in template order.
	Next *TNode

	// ProjectionNext is the following sibling in projection order. It
	// differs from Next when content projection re-links siblings across
	// insertion points.
	ProjectionNext *TNode

	// Projection holds, on a component-host node, the first projected
	// node for each of the hosted component's declared insertion points.
	// Entries may be nil when an insertion point received no content.
	Projection []*TNode

	// InsertBeforeIndex is non-empty when i18n rearranged this node away
	// from its template position; the head names the slot the node was
	// relocated before.
	InsertBeforeIndex []int

	// I18nOps are the create-opcodes of an i18n block node.
	I18nOps []I18nOp

	// TViews are the embedded templates declared at this node. A view
	// container anchor carries the template it instantiates here.
	TViews []*TView

	// ComponentSelector is non-empty when this element hosts a child
	// component.
	ComponentSelector string
}

// TView is the static description of one template: its slot count and
// its node records. All views instantiated from the same template share
// one TView, which is what gives template identity its meaning.
type TView struct {
	// FirstChild is the first root-level node of the template.
	FirstChild *TNode

	// Nodes maps absolute slot index to the template node declared
	// there; nil entries are local-reference or binding slots.
	Nodes []*TNode
}

// SlotCount returns the total number of slots a view instantiated from
// this template has, including the header.
func (t *TView) SlotCount() int {
	return len(t.Nodes)
}

// NodeAt returns the template node at the given absolute slot index, or
// nil for header, local-reference and binding slots.
func (t *TView) NodeAt(i int) *TNode {
	if i < 0 || i >= len(t.Nodes) {
		return nil
	}
	return t.Nodes[i]
}

// View is one live instance of a template: the slot values populated by
// the renderer, plus the host element the instance is attached to.
type View struct {
	// TView is the static template shared by all instances.
	TView *TView

	// Host is the component host element for component views. For
	// embedded views it is the host of the declaring component.
	Host *html.Node

	// Selector is the component selector for component views and empty
	// for embedded views.
	Selector string

	// Slots holds the per-instance slot values, indexed absolutely.
	Slots []any
}

// IsComponent reports whether this view is a component view rather than
// an embedded view.
func (v *View) IsComponent() bool {
	return v.Selector != ""
}

// Slot returns the value stored at the given absolute slot index.
func (v *View) Slot(i int) any {
	if i < 0 || i >= len(v.Slots) {
		return nil
	}
	return v.Slots[i]
}

// SlotRange returns the half-open range of template-declared slots.
func (v *View) SlotRange() (int, int) {
	return HeaderOffset, v.TView.SlotCount()
}

// Native returns the DOM node stored at the slot of the given template
// node. It fails when the slot holds anything other than a DOM node.
func (v *View) Native(t *TNode) (*html.Node, error) {
	if t == nil {
		return nil, fmt.Errorf("native lookup with nil template node")
	}
	n, ok := v.Slot(t.Index).(*html.Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("slot %d (%s %q) holds no DOM node", t.Index, t.Type, t.Value)
	}
	return n, nil
}

// Container is a view container: an ordered list of embedded views
// anchored at a comment node in the DOM. Embedded views render before
// the anchor, in list order.
type Container struct {
	// Anchor is the comment node marking the container's position.
	Anchor *html.Node

	// Views holds the embedded views in render order. Entries are *View
	// values, possibly wrapped in *RootView for views attached through a
	// root-view wrapper.
	Views []any
}

// RootView wraps a view that was attached to a container through the
// framework's root-view indirection (dynamically created components and
// router outlets attach this way).
type RootView struct {
	View *View
}

// IsContainer reports whether a slot value is a view container.
func IsContainer(slot any) bool {
	_, ok := slot.(*Container)
	return ok
}

// IsView reports whether a slot value is a nested view.
func IsView(slot any) bool {
	if _, ok := slot.(*View); ok {
		return true
	}
	return IsRootView(slot)
}

// IsRootView reports whether a container entry or slot value is a
// root-view wrapper.
func IsRootView(v any) bool {
	_, ok := v.(*RootView)
	return ok
}

// Unwrap returns the underlying view of a container entry or slot value,
// removing the root-view wrapper when present. It returns nil when the
// value is not a view at all.
func Unwrap(v any) *View {
	switch vv := v.(type) {
	case *View:
		return vv
	case *RootView:
		return vv.View
	default:
		return nil
	}
}
