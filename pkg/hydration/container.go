package hydration

import (
	"fmt"

	"github.com/newbpydev/bubblyweb/pkg/view"
)

// serializeContainer walks the embedded views of a view container and
// produces their records. Each embedded view is serialized recursively;
// its annotation travels inline in the view record. The caller sets
// NumRootNodes on the returned record only for element containers.
func (s *serializer) serializeContainer(c *view.Container) (*ContainerRecord, error) {
	rec := &ContainerRecord{Views: make([]*ViewRecord, 0, len(c.Views))}
	for pos, raw := range c.Views {
		ev := view.Unwrap(raw)
		if ev == nil {
			return nil, fmt.Errorf("container entry %d is %T, not a view: %w", pos, raw, ErrMalformedTree)
		}
		if ev.TView == nil {
			return nil, fmt.Errorf("embedded view %d has no template: %w", pos, ErrMalformedTree)
		}

		// Component views attached to the container identify by
		// selector, which stays stable across renders; embedded views
		// identify by the per-render template id.
		var tmpl string
		if ev.IsComponent() {
			tmpl = ev.Selector
		} else {
			tmpl = s.store.registry.IDFor(ev.TView)
		}

		roots := len(view.CollectNatives(ev.TView.FirstChild, ev))

		ann, err := s.serializeView(ev)
		if err != nil {
			return nil, err
		}
		rec.Views = append(rec.Views, &ViewRecord{
			Template:     tmpl,
			NumRootNodes: roots,
			Annotation:   *ann,
		})
	}
	return rec, nil
}
