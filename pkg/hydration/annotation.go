package hydration

import (
	"strconv"

	"github.com/newbpydev/bubblyweb/pkg/view"
)

// TransferKey is the well-known transfer-state key under which the
// annotation table travels to the client.
const TransferKey = "nghData"

// Annotation describes, for one component view, how the client can
// re-locate the DOM nodes whose position is not derivable from the
// static template alone. All keys are adjusted slot indices (absolute
// slot minus the view header offset) rendered in decimal.
//
// The short wire keys are part of the server/client contract:
//
//	n — node paths
//	c — container records
//	t — embedded template identities
//
// An annotation with none of the three serializes as {}, which is the
// normal case for components without projection, containers or i18n.
type Annotation struct {
	// Nodes maps adjusted slot index to a navigation path string.
	Nodes map[string]string `json:"n,omitempty"`

	// Containers maps adjusted slot index to a container record.
	Containers map[string]*ContainerRecord `json:"c,omitempty"`

	// Templates maps adjusted slot index to the identity of the template
	// embedded at that slot.
	Templates map[string]string `json:"t,omitempty"`
}

// ContainerRecord describes one view container or element container.
type ContainerRecord struct {
	// Views are the embedded views in render order. Always present, even
	// when empty, so the client can distinguish an empty container from
	// a missing one.
	Views []*ViewRecord `json:"v"`

	// NumRootNodes is set for element containers only: the number of
	// root-level DOM nodes between the first rendered node and the
	// container's comment anchor. Zero is omitted on the wire; clients
	// treat the absent key as zero.
	NumRootNodes int `json:"r,omitempty"`
}

// ViewRecord describes one embedded view inside a container. It carries
// the full annotation of the embedded view inline.
type ViewRecord struct {
	// Template identifies what the view was instantiated from: a minted
	// template id for embedded views, or the component selector for
	// component views attached to the container.
	Template string `json:"i"`

	// NumRootNodes is the number of root-level DOM nodes belonging to
	// this view.
	NumRootNodes int `json:"r"`

	// Multiplicity is set by the compressor when this record stands for
	// a run of consecutive, structurally identical views. Values below 2
	// never appear on the wire.
	Multiplicity int `json:"x,omitempty"`

	Annotation
}

// IsEmpty reports whether the annotation carries no information.
func (a *Annotation) IsEmpty() bool {
	return len(a.Nodes) == 0 && len(a.Containers) == 0 && len(a.Templates) == 0
}

func (a *Annotation) setNode(slot int, path string) {
	if a.Nodes == nil {
		a.Nodes = make(map[string]string)
	}
	a.Nodes[adjust(slot)] = path
}

func (a *Annotation) setContainer(slot int, rec *ContainerRecord) {
	if a.Containers == nil {
		a.Containers = make(map[string]*ContainerRecord)
	}
	a.Containers[adjust(slot)] = rec
}

func (a *Annotation) setTemplate(slot int, id string) {
	if a.Templates == nil {
		a.Templates = make(map[string]string)
	}
	a.Templates[adjust(slot)] = id
}

// adjust converts an absolute slot index to its wire form: the decimal
// adjusted index relative to the view header.
func adjust(slot int) string {
	return strconv.Itoa(slot - view.HeaderOffset)
}
