package hydration

import (
	"github.com/newbpydev/bubblyweb/pkg/view"
)

// slotKind is the classification of one view slot, deciding which
// serialization strategy applies. Checks run in a fixed order; the first
// matching condition wins.
type slotKind int

const (
	// slotSkip: no template node, a local-reference placeholder.
	slotSkip slotKind = iota

	// slotContainer: the slot holds a view container.
	slotContainer

	// slotComponent: the slot holds the view of a nested component; the
	// component is serialized as its own annotation root.
	slotComponent

	// slotI18nBlock: the template node carries i18n create-opcodes.
	slotI18nBlock

	// slotI18nRelocated: i18n moved this node away from its template
	// position.
	slotI18nRelocated

	// slotElementContainer: an <ng-container> grouping.
	slotElementContainer

	// slotProjectionMarker: an <ng-content> insertion point.
	slotProjectionMarker

	// slotPlain: an element or text node in its template position.
	slotPlain
)

// classify categorizes one slot. Projection heads are not a kind of
// their own: a component host carrying projected content still needs its
// regular classification, so the serializer records projection heads
// before dispatching on the kind returned here.
func classify(t *view.TNode, val any) slotKind {
	switch {
	case t == nil:
		return slotSkip
	case view.IsContainer(val):
		return slotContainer
	case view.IsView(val):
		return slotComponent
	case len(t.I18nOps) > 0:
		return slotI18nBlock
	case relocatedByI18n(t):
		return slotI18nRelocated
	case t.Type == view.NodeElementContainer:
		return slotElementContainer
	case t.Type == view.NodeProjection:
		return slotProjectionMarker
	default:
		return slotPlain
	}
}

// relocatedByI18n reports whether i18n rearranged the node: a non-empty
// insertBeforeIndex sequence whose head names a real slot.
func relocatedByI18n(t *view.TNode) bool {
	return len(t.InsertBeforeIndex) > 0 && t.InsertBeforeIndex[0] >= 0
}
