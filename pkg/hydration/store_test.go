package hydration

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newbpydev/bubblyweb/pkg/view"
	"github.com/newbpydev/bubblyweb/pkg/view/viewtest"
)

func rec(template string, roots int) *ViewRecord {
	return &ViewRecord{Template: template, NumRootNodes: roots}
}

func TestCompressContainer(t *testing.T) {
	t.Run("Collapses Adjacent Runs", func(t *testing.T) {
		c := &ContainerRecord{Views: []*ViewRecord{
			rec("t0", 1), rec("t0", 1), rec("t0", 1), rec("t1", 2),
		}}
		compressContainer(c)

		require.Len(t, c.Views, 2)
		assert.Equal(t, 3, c.Views[0].Multiplicity)
		assert.Equal(t, 0, c.Views[1].Multiplicity)
	})

	t.Run("Never Merges Non-Adjacent Duplicates", func(t *testing.T) {
		c := &ContainerRecord{Views: []*ViewRecord{
			rec("t0", 1), rec("t0", 1), rec("t1", 1), rec("t0", 1),
		}}
		compressContainer(c)

		require.Len(t, c.Views, 3)
		assert.Equal(t, 2, c.Views[0].Multiplicity)
		assert.Equal(t, "t1", c.Views[1].Template)
		assert.Equal(t, "t0", c.Views[2].Template)
		assert.Equal(t, 0, c.Views[2].Multiplicity)
	})

	t.Run("Run Of One Carries No Multiplicity", func(t *testing.T) {
		c := &ContainerRecord{Views: []*ViewRecord{rec("t0", 1)}}
		compressContainer(c)

		require.Len(t, c.Views, 1)
		assert.Equal(t, 0, c.Views[0].Multiplicity)

		blob, err := json.Marshal(c)
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":[{"i":"t0","r":1}]}`, string(blob))
	})

	t.Run("Equality Ignores Existing Multiplicity", func(t *testing.T) {
		pre := rec("t0", 1)
		pre.Multiplicity = 5
		c := &ContainerRecord{Views: []*ViewRecord{pre, rec("t0", 1)}}
		compressContainer(c)

		require.Len(t, c.Views, 1)
		assert.Equal(t, 6, c.Views[0].Multiplicity)
	})

	t.Run("Nested Differences Prevent Merging", func(t *testing.T) {
		a := rec("t0", 1)
		a.Containers = map[string]*ContainerRecord{"2": {Views: []*ViewRecord{}}}
		b := rec("t0", 1)
		b.Containers = map[string]*ContainerRecord{"2": {Views: []*ViewRecord{rec("t1", 1)}}}
		c := &ContainerRecord{Views: []*ViewRecord{a, b}}
		compressContainer(c)

		assert.Len(t, c.Views, 2)
	})
}

// buildList assembles the banded-list fixture: 15 rows, with an inner
// conditional view on rows 7 through 10.
func buildList(t *testing.T) (anchor *view.TNode, table []*Annotation) {
	t.Helper()
	var rowAnchor, innerAnchor *view.TNode
	inner := viewtest.NewTemplate(func(b *viewtest.B) {
		b.Element("em", nil)
	})
	row := viewtest.NewTemplate(func(b *viewtest.B) {
		b.Element("li", func(b *viewtest.B) {
			b.Text("item")
			innerAnchor = b.ViewContainer(inner)
		})
	})
	list := viewtest.Define("app-list", func(b *viewtest.B) {
		b.Element("ul", func(b *viewtest.B) {
			rowAnchor = b.ViewContainer(row)
		})
	})

	host, v := mount(t, list)

	cont := v.Slot(rowAnchor.Index).(*view.Container)
	for i := 1; i <= 15; i++ {
		ev := row.Instantiate(cont, v)
		if i > 6 && i <= 10 {
			ic := ev.Slot(innerAnchor.Index).(*view.Container)
			inner.Instantiate(ic, ev)
		}
	}

	store := NewStore()
	require.NoError(t, store.Annotate(host, v))
	out, err := store.Finalize()
	require.NoError(t, err)
	return rowAnchor, out
}

func TestCompressBandedList(t *testing.T) {
	anchor, table := buildList(t)

	require.Len(t, table, 1)
	listRec := table[0].Containers[adjust(anchor.Index)]
	require.NotNil(t, listRec)

	// Three bands: rows without the inner view, rows with it, rows
	// without it again. The trailing band is a duplicate shape of the
	// first but not adjacent to it, so it stays separate.
	require.Len(t, listRec.Views, 3)
	multiplicities := []int{
		listRec.Views[0].Multiplicity,
		listRec.Views[1].Multiplicity,
		listRec.Views[2].Multiplicity,
	}
	assert.Equal(t, []int{6, 4, 5}, multiplicities)

	// The outer bands share a shape.
	assert.True(t, structurallyEqual(listRec.Views[0], listRec.Views[2]))
	assert.False(t, structurallyEqual(listRec.Views[0], listRec.Views[1]))

	// Every row reports one root node (<li>).
	for _, vr := range listRec.Views {
		assert.Equal(t, 1, vr.NumRootNodes)
	}
}

func TestSharedAnnotationForDuplicateComponents(t *testing.T) {
	widget := viewtest.Define("app-widget", func(b *viewtest.B) {
		b.Element("span", func(b *viewtest.B) {
			b.Text("w")
		})
	})
	var first, second *view.TNode
	root := viewtest.Define("app-twins", func(b *viewtest.B) {
		b.ElementContainer(func(b *viewtest.B) {
			b.Text("header")
		})
		first = b.Child(widget)
		second = b.Child(widget)
	})

	host, v := mount(t, root)

	store := NewStore()
	require.NoError(t, store.Annotate(host, v))
	table, err := store.Finalize()
	require.NoError(t, err)

	// Root plus one shared entry for the two identical widgets.
	require.Len(t, table, 2)

	firstHost := view.Unwrap(v.Slot(first.Index)).Host
	secondHost := view.Unwrap(v.Slot(second.Index)).Host
	firstIdx, ok := ReadHostIndex(firstHost)
	require.True(t, ok)
	secondIdx, ok := ReadHostIndex(secondHost)
	require.True(t, ok)
	assert.Equal(t, firstIdx, secondIdx)
	assert.Equal(t, 1, firstIdx)

	rootIdx, ok := ReadHostIndex(host)
	require.True(t, ok)
	assert.Equal(t, 0, rootIdx)
}

func TestAnnotationRoundTrip(t *testing.T) {
	_, table := buildList(t)
	require.Len(t, table, 1)

	blob, err := json.Marshal(table[0])
	require.NoError(t, err)

	var parsed Annotation
	require.NoError(t, json.Unmarshal(blob, &parsed))

	if diff := cmp.Diff(table[0], &parsed); diff != "" {
		t.Errorf("annotation round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderStability(t *testing.T) {
	// Two independent renders of the same tree must produce identical
	// tables; t<N> ids are fresh per render but consistent within one.
	_, first := buildList(t)
	_, second := buildList(t)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestStoreConsumedOnFinalize(t *testing.T) {
	comp := viewtest.Define("app-once", func(b *viewtest.B) {
		b.Text("x")
	})
	host, v := mount(t, comp)

	store := NewStore()
	require.NoError(t, store.Annotate(host, v))

	table, err := store.Finalize()
	require.NoError(t, err)
	assert.Len(t, table, 1)

	again, err := store.Finalize()
	require.NoError(t, err)
	assert.Empty(t, again)
}
