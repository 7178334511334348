package hydration

import (
	"strconv"

	"github.com/newbpydev/bubblyweb/pkg/view"
)

// TemplateRegistry mints stable string identities for embedded templates
// so that a view emitted in one place can be matched with the template
// that defined it elsewhere (template outlets render a template far from
// its definition site).
//
// Identities are stable within one render and unique per distinct
// template. The registry is per-render state owned by the store; renders
// running concurrently in the same process never share counters.
type TemplateRegistry struct {
	ids  map[*view.TView]string
	next int
}

// NewTemplateRegistry creates an empty registry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{ids: make(map[*view.TView]string)}
}

// IDFor returns the identity of the given template, minting a fresh
// "t<N>" id on first sight. Component views do not go through the
// registry; their selector is the identity, which stays stable across
// renders for known components.
func (r *TemplateRegistry) IDFor(t *view.TView) string {
	if id, ok := r.ids[t]; ok {
		return id
	}
	id := "t" + strconv.Itoa(r.next)
	r.next++
	r.ids[t] = id
	return id
}

// Len returns the number of templates seen so far.
func (r *TemplateRegistry) Len() int {
	return len(r.ids)
}
