package viewtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/newbpydev/bubblyweb/pkg/dom"
	"github.com/newbpydev/bubblyweb/pkg/view"
)

func TestMountBuildsConsistentPair(t *testing.T) {
	var ulTN, liTN *view.TNode
	comp := Define("app-demo", func(b *B) {
		ulTN = b.Element("ul", func(b *B) {
			liTN = b.Element("li", func(b *B) {
				b.Text("x")
			})
		})
	})

	host := dom.Element("app-demo")
	v := comp.Mount(host)

	// Slot numbering is declaration order from the header offset.
	assert.Equal(t, view.HeaderOffset, ulTN.Index)
	assert.Equal(t, view.HeaderOffset+1, liTN.Index)
	assert.Equal(t, view.HeaderOffset+3, v.TView.SlotCount())

	// Template links mirror the nesting.
	assert.Same(t, ulTN, v.TView.FirstChild)
	assert.Same(t, liTN, ulTN.Child)
	assert.Same(t, ulTN, liTN.Parent)

	// The DOM mirrors the template.
	ul, err := v.Native(ulTN)
	require.NoError(t, err)
	assert.Same(t, host.FirstChild, ul)
	li, err := v.Native(liTN)
	require.NoError(t, err)
	assert.Same(t, ul.FirstChild, li)
	assert.Equal(t, "x", li.FirstChild.Data)
}

func TestSharedTViewAcrossInstances(t *testing.T) {
	comp := Define("app-twice", func(b *B) {
		b.Element("p", nil)
	})

	a := comp.Mount(dom.Element("app-twice"))
	b := comp.Mount(dom.Element("app-twice"))

	assert.Same(t, a.TView, b.TView)
	assert.NotSame(t, a.Slots[view.HeaderOffset], b.Slots[view.HeaderOffset])
}

func TestTemplateInstantiation(t *testing.T) {
	row := NewTemplate(func(b *B) {
		b.Element("li", nil)
	})
	var anchorTN *view.TNode
	list := Define("app-list", func(b *B) {
		b.Element("ul", func(b *B) {
			anchorTN = b.ViewContainer(row)
		})
	})

	host := dom.Element("app-list")
	v := list.Mount(host)
	cont := v.Slot(anchorTN.Index).(*view.Container)

	first := row.Instantiate(cont, v)
	second := row.Instantiate(cont, v)

	require.Len(t, cont.Views, 2)
	assert.Same(t, first.TView, second.TView)
	assert.Equal(t, []*view.TView{first.TView}, anchorTN.TViews)

	// Rendered rows sit before the anchor, in instantiation order.
	ul := host.FirstChild
	assert.Equal(t, "li", ul.FirstChild.Data)
	assert.Equal(t, "li", ul.FirstChild.NextSibling.Data)
	assert.Equal(t, html.CommentNode, ul.LastChild.Type)
	assert.Same(t, cont.Anchor, ul.LastChild)

	// Embedded views are not component views.
	assert.False(t, first.IsComponent())
	assert.Same(t, host, first.Host)
}

func TestChildMountsNestedComponent(t *testing.T) {
	inner := Define("app-inner", func(b *B) {
		b.Text("i")
	})
	var childTN *view.TNode
	outer := Define("app-outer", func(b *B) {
		childTN = b.Child(inner)
	})

	host := dom.Element("app-outer")
	v := outer.Mount(host)

	childView := view.Unwrap(v.Slot(childTN.Index))
	require.NotNil(t, childView)
	assert.Equal(t, "app-inner", childView.Selector)
	assert.Equal(t, "app-inner", childTN.ComponentSelector)
	assert.Same(t, host.FirstChild, childView.Host)
	assert.Equal(t, "i", childView.Host.FirstChild.Data)
}

func TestProjectedContent(t *testing.T) {
	projector := Define("projector", func(b *B) {
		b.Projection()
	})
	var hostTN, textTN *view.TNode
	root := Define("app-root", func(b *B) {
		hostTN = b.Child(projector)
		b.Projected(hostTN, func(b *B) {
			textTN = b.Text("hi")
		})
	})

	host := dom.Element("app-root")
	v := root.Mount(host)

	// The text occupies a slot of the outer view but renders inside the
	// projector's host element.
	require.Len(t, hostTN.Projection, 1)
	assert.Same(t, textTN, hostTN.Projection[0])
	assert.Same(t, hostTN, textTN.Parent)

	childView := view.Unwrap(v.Slot(hostTN.Index))
	text, err := v.Native(textTN)
	require.NoError(t, err)
	assert.Same(t, childView.Host, text.Parent)
}

func TestReplayDriftPanics(t *testing.T) {
	flip := false
	tmpl := NewTemplate(func(b *B) {
		if flip {
			b.Text("drifted")
		} else {
			b.Element("p", nil)
		}
	})
	// Define against the first shape.
	tmpl.TView()

	flip = true
	anchorHost := dom.Element("div")
	cont := &view.Container{Anchor: dom.Comment("container")}
	anchorHost.AppendChild(cont.Anchor)

	assert.Panics(t, func() {
		tmpl.Instantiate(cont, &view.View{Host: anchorHost})
	})
}
