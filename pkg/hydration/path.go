package hydration

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/newbpydev/bubblyweb/pkg/dom"
)

// AnchorHost is the path anchor naming the containing component's host
// element. The alternative anchor form is the adjusted slot index of an
// element inside the same view.
const AnchorHost = "host"

// ComputeSteps returns the sequence of firstChild/nextSibling steps that
// navigates from a to b. The target must be reachable from the anchor by
// forward in-order traversal; when it is not, ErrUnreachableTarget is
// returned (wrapped with position detail).
func ComputeSteps(a, b *html.Node) ([]dom.Step, error) {
	if a == b {
		return nil, nil
	}
	if a == nil || b == nil {
		return nil, fmt.Errorf("nil node: %w", ErrUnreachableTarget)
	}
	if a.Parent != nil && a.Parent == b.Parent {
		// Same parent: a plain sibling walk. Overshooting means b
		// precedes a in document order, which the contract forbids.
		var steps []dom.Step
		for n := a; n != nil; n = n.NextSibling {
			if n == b {
				return steps, nil
			}
			steps = append(steps, dom.StepNextSibling)
		}
		return nil, fmt.Errorf("sibling walk ran off the end: %w", ErrUnreachableTarget)
	}
	parent := b.Parent
	if parent == nil {
		return nil, fmt.Errorf("target parent chain exhausted: %w", ErrUnreachableTarget)
	}
	steps, err := ComputeSteps(a, parent)
	if err != nil {
		return nil, err
	}
	steps = append(steps, dom.StepFirstChild)
	if parent.FirstChild == nil {
		return nil, fmt.Errorf("anchor subtree has no children: %w", ErrUnreachableTarget)
	}
	rest, err := ComputeSteps(parent.FirstChild, b)
	if err != nil {
		return nil, err
	}
	return append(steps, rest...), nil
}

// EncodePath renders an anchor label and a step sequence into the wire
// form of a path: the anchor, then each step, dot-joined.
func EncodePath(anchor string, steps []dom.Step) string {
	if len(steps) == 0 {
		return anchor
	}
	parts := make([]string, 0, len(steps)+1)
	parts = append(parts, anchor)
	for _, s := range steps {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ".")
}

// DecodePath splits a path string back into its anchor and steps. It
// reports ok=false for strings outside the path grammar.
func DecodePath(path string) (anchor string, steps []dom.Step, ok bool) {
	if path == "" {
		return "", nil, false
	}
	parts := strings.Split(path, ".")
	if parts[0] != AnchorHost && (parts[0] == "" || strings.Trim(parts[0], "0123456789") != "") {
		return "", nil, false
	}
	steps, ok = dom.ParseSteps(parts[1:])
	if !ok {
		return "", nil, false
	}
	return parts[0], steps, true
}
