package hydration

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"golang.org/x/net/html"

	"github.com/newbpydev/bubblyweb/pkg/monitoring"
	"github.com/newbpydev/bubblyweb/pkg/observability"
	"github.com/newbpydev/bubblyweb/pkg/view"
)

// Store accumulates the annotations of one render. Hosts are recorded in
// the order they are first encountered (depth-first, pre-order); the
// final table keys follow that order, with structurally identical
// top-level annotations collapsed into one shared entry.
//
// A Store is per-render state: it is created by the bootstrap façade
// after the application stabilizes, mutated only by the serializer, and
// discarded with the render platform. The render is single-threaded by
// contract, so no locking happens here.
type Store struct {
	registry *TemplateRegistry
	pending  []*pendingAnnotation
}

type pendingAnnotation struct {
	host *html.Node
	ann  *Annotation
}

// NewStore creates an empty per-render annotation store with its own
// template registry.
func NewStore() *Store {
	return &Store{registry: NewTemplateRegistry()}
}

// Registry exposes the store's per-render template registry.
func (s *Store) Registry() *TemplateRegistry {
	return s.registry
}

// Annotate serializes a bootstrapped component and every nested
// component host discovered below it, queuing one annotation per host.
// Call Finalize once all roots are annotated.
func (s *Store) Annotate(host *html.Node, v *view.View) error {
	if host == nil {
		selector := ""
		if v != nil {
			selector = v.Selector
		}
		return fmt.Errorf("component %q: %w", selector, ErrMissingAnchor)
	}
	return s.annotate(host, v)
}

// annotate reserves the host's pre-order position before descending, so
// nested hosts encountered during serialization land after their parent
// even though the parent's annotation completes last.
func (s *Store) annotate(host *html.Node, v *view.View) error {
	started := time.Now()
	p := &pendingAnnotation{host: host}
	s.pending = append(s.pending, p)

	ser := &serializer{store: s}
	ann, err := ser.serializeView(v)
	if err != nil {
		return err
	}
	p.ann = ann

	monitoring.GetGlobalMetrics().RecordComponentSerialization(v.Selector, time.Since(started))
	observability.RecordBreadcrumb("hydration", "serialized component "+v.Selector, map[string]interface{}{
		"empty": ann.IsEmpty(),
	})
	return nil
}

// Finalize compresses every queued annotation, assigns table keys in
// encounter order with duplicates sharing one entry, writes the ngh
// attribute onto each host, and returns the table destined for transfer
// state. The store's queue is consumed; the store must not be reused
// afterwards.
func (s *Store) Finalize() ([]*Annotation, error) {
	table := make([]*Annotation, 0, len(s.pending))
	byShape := make(map[string]int, len(s.pending))
	for _, p := range s.pending {
		if p.ann == nil {
			return nil, fmt.Errorf("annotation queue entry never completed: %w", ErrMalformedTree)
		}
		compressAnnotation(p.ann)
		blob, err := json.Marshal(p.ann)
		if err != nil {
			return nil, fmt.Errorf("marshaling annotation: %w", err)
		}
		idx, seen := byShape[string(blob)]
		if !seen {
			idx = len(table)
			table = append(table, p.ann)
			byShape[string(blob)] = idx
			monitoring.GetGlobalMetrics().RecordAnnotationSize(len(blob))
		} else {
			monitoring.GetGlobalMetrics().RecordSharedAnnotation()
		}
		WriteHostIndex(p.host, idx)
	}
	s.pending = nil
	return table, nil
}

// compressAnnotation collapses runs of consecutive, structurally equal
// view records in every container of the annotation. Nested containers
// compress first so that parents whose only difference was uncompressed
// children still compare equal.
func compressAnnotation(a *Annotation) {
	for _, c := range a.Containers {
		compressContainer(c)
	}
}

func compressContainer(c *ContainerRecord) {
	for _, vr := range c.Views {
		compressAnnotation(&vr.Annotation)
	}
	if len(c.Views) < 2 {
		return
	}
	out := make([]*ViewRecord, 0, len(c.Views))
	for _, vr := range c.Views {
		if len(out) > 0 && structurallyEqual(out[len(out)-1], vr) {
			last := out[len(out)-1]
			if last.Multiplicity == 0 {
				last.Multiplicity = 2
			} else {
				last.Multiplicity++
			}
			monitoring.GetGlobalMetrics().RecordCollapsedView()
			continue
		}
		out = append(out, vr)
	}
	c.Views = out
}

// structurallyEqual is the compressor's total equality: two view records
// are equal iff they agree on every key, nested annotations included,
// ignoring the multiplicity either record may already carry.
func structurallyEqual(a, b *ViewRecord) bool {
	ac, bc := *a, *b
	ac.Multiplicity, bc.Multiplicity = 0, 0
	return reflect.DeepEqual(ac, bc)
}
