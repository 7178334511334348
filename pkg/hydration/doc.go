// Package hydration implements the server-side hydration annotation
// core: the serializer that walks a populated view tree during
// server-side rendering and emits, per component host, a compact JSON
// description the client uses to re-attach its freshly constructed view
// tree to the DOM nodes already on the page.
//
// The server's view tree and the client's about-to-be-reconstructed tree
// are computed independently; they align at the DOM level except where
// content projection, structural directives, template outlets or i18n
// rearrangements move nodes away from their template positions. For
// exactly those slots the serializer records an explicit navigation path
// (a firstChild/nextSibling walk from a known anchor), a container
// record, or a template identity.
//
// # Pipeline
//
// The bootstrap façade creates one Store per render and calls
// Store.Annotate for each bootstrapped component host. The serializer
// classifies every slot of the view, descends into view containers and
// nested components, and computes DOM paths where needed. Finalize then
// deduplicates and compresses the collected annotations, stamps each
// host's ngh attribute, and returns the table that travels to the client
// under TransferKey in transfer state.
//
// # Failure model
//
// Unreachable path targets are reported through the observability
// reporter and recorded as empty paths; the render proceeds and the
// client raises a precise mismatch for the affected slot. Structural
// violations of the view tree and missing host anchors abort the render
// with ErrMalformedTree / ErrMissingAnchor.
package hydration
