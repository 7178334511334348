package hydration

import (
	"errors"
	"fmt"
)

// Serialization error taxonomy. Unreachable targets degrade gracefully:
// the path is recorded empty and the client reports the precise mismatch
// at hydration time. Malformed trees and missing anchors abort the
// render, because continuing would emit an annotation the client cannot
// trust at all.
var (
	// ErrUnreachableTarget is returned by path computation when the
	// target node cannot be reached from the anchor with forward-only
	// firstChild/nextSibling navigation.
	ErrUnreachableTarget = errors.New("target node is not reachable from anchor")

	// ErrMalformedTree is returned when the view tree violates a
	// structural assumption, e.g. a container entry that is not a view
	// or an embedded view without a template.
	ErrMalformedTree = errors.New("malformed view tree")

	// ErrMissingAnchor is returned when a component host element cannot
	// be located for a view that needs one.
	ErrMissingAnchor = errors.New("component host element not found")
)

// UnreachableTargetError carries the position at which a path walk ran
// off the tree. It wraps ErrUnreachableTarget for errors.Is checks.
type UnreachableTargetError struct {
	// Component is the selector of the component being serialized.
	Component string

	// Slot is the absolute slot index of the target node (for i18n
	// opcode targets, the opcode's slot).
	Slot int

	// Reason describes which part of the walk failed.
	Reason string
}

// Error implements the error interface.
func (e *UnreachableTargetError) Error() string {
	return fmt.Sprintf("hydration path for component %q slot %d: %s", e.Component, e.Slot, e.Reason)
}

// Unwrap makes the error match ErrUnreachableTarget under errors.Is.
func (e *UnreachableTargetError) Unwrap() error {
	return ErrUnreachableTarget
}
