package hydration

import (
	"regexp"
	"strconv"

	"golang.org/x/net/html"

	"github.com/newbpydev/bubblyweb/pkg/dom"
)

const (
	// IndexAttr is the attribute carrying a host's annotation table
	// index on the wire.
	IndexAttr = "ngh"

	// ServerContextAttr carries the sanitized server context tag on
	// every top-level bootstrapped component host.
	ServerContextAttr = "ng-server-context"

	// DefaultServerContext is used when the configured context is empty
	// or contains nothing that survives sanitization.
	DefaultServerContext = "other"
)

var serverContextDisallowed = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// WriteHostIndex stamps the annotation table index onto a component host
// element.
func WriteHostIndex(host *html.Node, index int) {
	dom.SetAttribute(host, IndexAttr, strconv.Itoa(index))
}

// ReadHostIndex reads a host's annotation table index back, returning
// ok=false when the attribute is absent or not a non-negative integer.
func ReadHostIndex(host *html.Node) (int, bool) {
	raw, ok := dom.GetAttribute(host, IndexAttr)
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// SanitizeServerContext strips every character outside [a-zA-Z0-9-] from
// the configured context tag. An empty result falls back to
// DefaultServerContext.
func SanitizeServerContext(context string) string {
	clean := serverContextDisallowed.ReplaceAllString(context, "")
	if clean == "" {
		return DefaultServerContext
	}
	return clean
}

// WriteServerContext stamps the sanitized server context tag onto a
// top-level component host.
func WriteServerContext(host *html.Node, context string) {
	dom.SetAttribute(host, ServerContextAttr, SanitizeServerContext(context))
}
