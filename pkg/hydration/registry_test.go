package hydration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/newbpydev/bubblyweb/pkg/view"
)

func TestTemplateRegistry(t *testing.T) {
	t.Run("Mints Sequential IDs", func(t *testing.T) {
		r := NewTemplateRegistry()
		a := &view.TView{}
		b := &view.TView{}

		assert.Equal(t, "t0", r.IDFor(a))
		assert.Equal(t, "t1", r.IDFor(b))
		assert.Equal(t, 2, r.Len())
	})

	t.Run("Stable Within One Render", func(t *testing.T) {
		r := NewTemplateRegistry()
		tv := &view.TView{}

		first := r.IDFor(tv)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, r.IDFor(tv))
		}
		assert.Equal(t, 1, r.Len())
	})

	t.Run("Registries Do Not Share Counters", func(t *testing.T) {
		// Two concurrent renders must each start at t0; process-wide
		// minting state would leak template identities across renders.
		a := NewTemplateRegistry()
		b := NewTemplateRegistry()
		tvA := &view.TView{}
		tvB := &view.TView{}

		assert.Equal(t, "t0", a.IDFor(tvA))
		assert.Equal(t, "t0", b.IDFor(tvB))
	})
}
