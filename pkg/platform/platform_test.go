package platform

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/newbpydev/bubblyweb/pkg/dom"
	"github.com/newbpydev/bubblyweb/pkg/hydration"
	"github.com/newbpydev/bubblyweb/pkg/observability"
	"github.com/newbpydev/bubblyweb/pkg/transfer"
	"github.com/newbpydev/bubblyweb/pkg/view"
	"github.com/newbpydev/bubblyweb/pkg/view/viewtest"
)

// textApp builds a one-component application rendering "Hello".
func textApp(t *testing.T) *App {
	t.Helper()
	comp := viewtest.Define("app-text", func(b *viewtest.B) {
		b.Text("Hello")
	})
	doc, body := viewtest.NewDocument()
	host := dom.Element("app-text")
	body.AppendChild(host)
	return &App{Doc: doc, Roots: []*view.View{comp.Mount(host)}}
}

func TestRenderTextOnlyComponent(t *testing.T) {
	out, err := Render(context.Background(), textApp(t), Options{AppID: "demo"})
	require.NoError(t, err)

	assert.Contains(t, out, `ngh="0"`)
	assert.Contains(t, out, `ng-server-context="other"`)
	assert.Contains(t, out, ">Hello</app-text>")
	assert.Contains(t, out, `id="demo-state"`)

	// The annotation table travels under the well-known key and holds
	// one empty annotation.
	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)
	state, err := transfer.Extract(doc, "demo")
	require.NoError(t, err)

	var table []json.RawMessage
	require.NoError(t, json.Unmarshal(state[hydration.TransferKey], &table))
	require.Len(t, table, 1)
	assert.JSONEq(t, `{}`, string(table[0]))
}

func TestRenderServerContext(t *testing.T) {
	out, err := Render(context.Background(), textApp(t), Options{
		AppID:         "demo",
		ServerContext: "ssg analytics!",
	})
	require.NoError(t, err)
	assert.Contains(t, out, `ng-server-context="ssganalytics"`)
}

func TestRenderMintsAppID(t *testing.T) {
	out, err := Render(context.Background(), textApp(t), Options{})
	require.NoError(t, err)
	assert.Contains(t, out, `-state"`)
}

func TestRenderRequiresRoots(t *testing.T) {
	_, err := Render(context.Background(), &App{}, Options{})
	assert.Error(t, err)

	_, err = Render(context.Background(), nil, Options{})
	assert.Error(t, err)
}

func TestRenderLocatesHostBySelector(t *testing.T) {
	t.Run("Selector Missing From Document", func(t *testing.T) {
		doc, _ := viewtest.NewDocument()
		app := &App{Doc: doc, Roots: []*view.View{{Selector: "app-ghost"}}}

		_, err := Render(context.Background(), app, Options{})
		assert.ErrorIs(t, err, hydration.ErrMissingAnchor)
	})
}

func TestRenderRequiresDocument(t *testing.T) {
	comp := viewtest.Define("app-solo", func(b *viewtest.B) {
		b.Text("x")
	})
	host := dom.Element("app-solo")
	app := &App{Roots: []*view.View{comp.Mount(host)}}

	_, err := Render(context.Background(), app, Options{})
	assert.Error(t, err)
}

func TestPreSerializeHooks(t *testing.T) {
	t.Run("Hooks Write Transfer State", func(t *testing.T) {
		hook := func(ctx context.Context, state *transfer.State) error {
			state.Set("cart", map[string]int{"items": 3})
			return nil
		}
		out, err := Render(context.Background(), textApp(t), Options{
			AppID: "demo",
			Hooks: []PreSerializeHook{hook},
		})
		require.NoError(t, err)

		doc, err := html.Parse(strings.NewReader(out))
		require.NoError(t, err)
		state, err := transfer.Extract(doc, "demo")
		require.NoError(t, err)
		assert.Contains(t, state, "cart")
		assert.Contains(t, state, hydration.TransferKey)
	})

	t.Run("Hook Failure Is A Warning", func(t *testing.T) {
		var captured []error
		observability.SetErrorReporter(captureReporter{errs: &captured})
		defer observability.SetErrorReporter(nil)

		boom := errors.New("state flush failed")
		out, err := Render(context.Background(), textApp(t), Options{
			AppID: "demo",
			Hooks: []PreSerializeHook{
				func(ctx context.Context, state *transfer.State) error { return boom },
				func(ctx context.Context, state *transfer.State) error { return nil },
			},
		})
		require.NoError(t, err)
		assert.Contains(t, out, `ngh="0"`)

		require.Len(t, captured, 1)
		assert.ErrorIs(t, captured[0], boom)
	})
}

// blockingStabilizer records whether it was consulted.
type blockingStabilizer struct {
	called bool
	err    error
}

func (s *blockingStabilizer) WhenStable(ctx context.Context) error {
	s.called = true
	return s.err
}

func TestStabilizer(t *testing.T) {
	t.Run("Awaited Before Serialization", func(t *testing.T) {
		stab := &blockingStabilizer{}
		_, err := Render(context.Background(), textApp(t), Options{Stabilizer: stab})
		require.NoError(t, err)
		assert.True(t, stab.called)
	})

	t.Run("Failure Aborts Render", func(t *testing.T) {
		stab := &blockingStabilizer{err: errors.New("never settled")}
		_, err := Render(context.Background(), textApp(t), Options{Stabilizer: stab})
		assert.ErrorContains(t, err, "never settled")
	})
}

func TestRenderMultipleRoots(t *testing.T) {
	first := viewtest.Define("app-header", func(b *viewtest.B) {
		b.Text("hdr")
	})
	second := viewtest.Define("app-footer", func(b *viewtest.B) {
		b.Text("ftr")
	})
	doc, body := viewtest.NewDocument()
	h1 := dom.Element("app-header")
	h2 := dom.Element("app-footer")
	body.AppendChild(h1)
	body.AppendChild(h2)
	app := &App{Doc: doc, Roots: []*view.View{first.Mount(h1), second.Mount(h2)}}

	out, err := Render(context.Background(), app, Options{AppID: "demo", ServerContext: "ssr"})
	require.NoError(t, err)

	// Both top-level hosts carry the context tag; the identical empty
	// annotations share one table entry.
	assert.Equal(t, 2, strings.Count(out, `ng-server-context="ssr"`))
	assert.Equal(t, 2, strings.Count(out, `ngh="0"`))
}

// captureReporter collects reported errors for assertions.
type captureReporter struct {
	errs *[]error
}

func (c captureReporter) ReportPanic(err *observability.SerializePanicError, ctx *observability.ErrorContext) {
	*c.errs = append(*c.errs, err)
}

func (c captureReporter) ReportError(err error, ctx *observability.ErrorContext) {
	*c.errs = append(*c.errs, err)
}

func (c captureReporter) Flush(timeout time.Duration) error { return nil }
