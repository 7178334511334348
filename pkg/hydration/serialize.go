package hydration

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/net/html"

	"github.com/newbpydev/bubblyweb/pkg/monitoring"
	"github.com/newbpydev/bubblyweb/pkg/observability"
	"github.com/newbpydev/bubblyweb/pkg/view"
)

// serializer walks one component's view recursively and produces its
// annotation. It is created per annotation root by the store; nested
// component hosts found along the way go back through the store so they
// become annotation roots of their own.
type serializer struct {
	store *Store
}

// serializeView produces the annotation object for a live view: for each
// slot in the template-declared range, it dispatches on the slot's
// classification and records paths, container records and template
// identities as needed.
func (s *serializer) serializeView(v *view.View) (*Annotation, error) {
	if v == nil || v.TView == nil {
		return nil, fmt.Errorf("view without template: %w", ErrMalformedTree)
	}
	ann := &Annotation{}
	start, end := v.SlotRange()
	for i := start; i < end; i++ {
		t := v.TView.NodeAt(i)
		val := v.Slot(i)

		// Projection heads are recorded regardless of what else the
		// slot is: a component host that received projected content is
		// still a component host below.
		if t != nil && len(t.Projection) > 0 {
			s.recordProjectionHeads(ann, v, t)
		}

		switch classify(t, val) {
		case slotSkip:
			continue

		case slotContainer:
			c := val.(*view.Container)
			if c.Anchor == nil {
				return nil, fmt.Errorf("container at slot %d of %q has no anchor: %w", i, v.Selector, ErrMalformedTree)
			}
			ann.setNode(i, s.pathForNative(v, t, c.Anchor, i))
			if len(t.TViews) > 0 {
				ann.setTemplate(i, s.store.registry.IDFor(t.TViews[0]))
			}
			rec, err := s.serializeContainer(c)
			if err != nil {
				return nil, err
			}
			ann.setContainer(i, rec)

		case slotComponent:
			child := view.Unwrap(val)
			if child.Host == nil {
				return nil, fmt.Errorf("nested component %q at slot %d: %w", child.Selector, i, ErrMissingAnchor)
			}
			if err := s.store.annotate(child.Host, child); err != nil {
				return nil, err
			}

		case slotI18nBlock:
			for _, op := range t.I18nOps {
				s.recordI18nOp(ann, v, op)
			}

		case slotI18nRelocated:
			ann.setNode(i, s.pathForTNode(v, t))

		case slotElementContainer:
			roots := len(view.CollectNatives(t.Child, v))
			ann.setContainer(i, &ContainerRecord{Views: []*ViewRecord{}, NumRootNodes: roots})

		case slotProjectionMarker:
			// The client cannot know what follows projected content, so
			// record where the next non-projection sibling lives.
			next := t.Next
			for next != nil && next.Type == view.NodeProjection {
				next = next.Next
			}
			if next != nil {
				ann.setNode(next.Index, s.pathForTNode(v, next))
			}

		case slotPlain:
			// Template order and projection order diverging means the
			// projected successor needs an explicit path.
			if t.ProjectionNext != nil && t.ProjectionNext != t.Next {
				ann.setNode(t.ProjectionNext.Index, s.pathForTNode(v, t.ProjectionNext))
			}
		}
	}
	return ann, nil
}

// recordProjectionHeads records a path for each projected node head on a
// component host. Nil heads (insertion points that received nothing) and
// re-projection heads (content forwarded through another insertion
// point) are skipped; the latter are resolved by the component that
// originally declared the content.
func (s *serializer) recordProjectionHeads(ann *Annotation, v *view.View, host *view.TNode) {
	for _, head := range host.Projection {
		if head == nil || head.Type == view.NodeProjection {
			continue
		}
		ann.setNode(head.Index, s.pathForTNode(v, head))
	}
}

// recordI18nOp records a path to the DOM node created by one i18n
// create-opcode. The anchor is the opcode's parent element when it lives
// in the template-declared range, the component host otherwise.
func (s *serializer) recordI18nOp(ann *Annotation, v *view.View, op view.I18nOp) {
	target, ok := v.Slot(op.Slot).(*html.Node)
	if !ok || target == nil {
		s.reportUnreachable(v, op.Slot, "i18n opcode target slot holds no DOM node")
		ann.setNode(op.Slot, "")
		return
	}
	anchorLabel := AnchorHost
	anchorNode := v.Host
	if op.ParentSlot >= view.HeaderOffset {
		if parent, ok := v.Slot(op.ParentSlot).(*html.Node); ok && parent != nil {
			anchorLabel = strconv.Itoa(op.ParentSlot - view.HeaderOffset)
			anchorNode = parent
		}
	}
	steps, err := ComputeSteps(anchorNode, target)
	if err != nil {
		s.reportUnreachable(v, op.Slot, err.Error())
		ann.setNode(op.Slot, "")
		return
	}
	monitoring.GetGlobalMetrics().RecordPathSteps(len(steps))
	ann.setNode(op.Slot, EncodePath(anchorLabel, steps))
}

// pathForTNode computes the path to the DOM node stored at a template
// node's own slot.
func (s *serializer) pathForTNode(v *view.View, t *view.TNode) string {
	target, err := v.Native(t)
	if err != nil {
		s.reportUnreachable(v, t.Index, err.Error())
		return ""
	}
	return s.pathForNative(v, t, target, t.Index)
}

// pathForNative computes the path from the best available anchor to an
// arbitrary DOM node associated with the template node t. Unreachable
// targets degrade to an empty path: the failure is reported and counted,
// serialization proceeds, and the client raises a precise mismatch.
func (s *serializer) pathForNative(v *view.View, t *view.TNode, target *html.Node, slot int) string {
	anchorLabel, anchorNode := s.anchorFor(v, t)
	if anchorNode == nil {
		s.reportUnreachable(v, slot, "no anchor node available")
		return ""
	}
	steps, err := ComputeSteps(anchorNode, target)
	if err != nil {
		s.reportUnreachable(v, slot, err.Error())
		return ""
	}
	monitoring.GetGlobalMetrics().RecordPathSteps(len(steps))
	return EncodePath(anchorLabel, steps)
}

// anchorFor picks the navigation anchor for nodes under the given
// template node: the nearest ancestor that is a plain element in its
// template position, or the component host when no such ancestor exists.
// Element containers have no wrapping element and i18n-relocated
// ancestors sit at positions the client cannot predict, so both are
// skipped.
func (s *serializer) anchorFor(v *view.View, t *view.TNode) (string, *html.Node) {
	for p := t.Parent; p != nil; p = p.Parent {
		if p.Type != view.NodeElement || relocatedByI18n(p) {
			continue
		}
		if n := anchorNative(v.Slot(p.Index)); n != nil {
			return strconv.Itoa(p.Index - view.HeaderOffset), n
		}
	}
	return AnchorHost, v.Host
}

// anchorNative resolves a slot value to the element usable as a path
// anchor. Component-host slots hold the child view; the anchor is that
// view's host element.
func anchorNative(val any) *html.Node {
	if n, ok := val.(*html.Node); ok {
		return n
	}
	if child := view.Unwrap(val); child != nil {
		return child.Host
	}
	return nil
}

// reportUnreachable routes a category-1 failure to the configured error
// reporter and the metrics backend.
func (s *serializer) reportUnreachable(v *view.View, slot int, reason string) {
	monitoring.GetGlobalMetrics().RecordPathFailure(v.Selector)
	reporter := observability.GetErrorReporter()
	if reporter == nil {
		return
	}
	reporter.ReportError(&UnreachableTargetError{Component: v.Selector, Slot: slot, Reason: reason}, &observability.ErrorContext{
		Component: v.Selector,
		Slot:      slot,
		Operation: "path",
		Timestamp: time.Now(),
	})
}
