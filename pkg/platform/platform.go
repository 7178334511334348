// Package platform is the server-side bootstrap façade: it takes a
// populated application view tree, waits for it to stabilize, runs
// pre-serialization hooks, invokes the hydration annotation core, and
// emits the final HTML document with the transfer-state script embedded.
//
// The platform owns per-render state only: each call to Render creates
// its own transfer state and annotation store. Nothing is shared between
// renders except the globally configured observability reporter and
// metrics backend.
package platform

import (
	"bytes"
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/newbpydev/bubblyweb/pkg/dom"
	"github.com/newbpydev/bubblyweb/pkg/hydration"
	"github.com/newbpydev/bubblyweb/pkg/observability"
	"github.com/newbpydev/bubblyweb/pkg/transfer"
	"github.com/newbpydev/bubblyweb/pkg/view"
)

// PreSerializeHook runs after the application is stable and before the
// serializer walks the view tree. Hooks typically flush pending
// application state into transfer state. Hook failures are collected as
// warnings; they never abort the render.
type PreSerializeHook func(ctx context.Context, state *transfer.State) error

// Stabilizer reports when the application has settled. Renders wait for
// stability before serializing; a view tree still mutating under the
// serializer is an application bug.
type Stabilizer interface {
	WhenStable(ctx context.Context) error
}

// Options configures one render. Zero values are usable: a fresh
// application id is minted, the server context defaults to "other", and
// no hooks run.
type Options struct {
	// AppID namespaces the transfer-state script element. Minted from a
	// random UUID when empty.
	AppID string

	// Document is the initial HTML shell to render into, used when the
	// application was not built against a parsed document already.
	Document string

	// URL is the request URL being rendered, carried into error reports.
	URL string

	// ServerContext tags the render origin (e.g. "ssr", "ssg"). The tag
	// is sanitized before it reaches the ng-server-context attribute.
	ServerContext string

	// Hooks run concurrently between stability and serialization.
	Hooks []PreSerializeHook

	// Stabilizer is awaited before serialization when set.
	Stabilizer Stabilizer

	// Providers and PlatformProviders are opaque dependency lists
	// forwarded to the application environment. The annotation core
	// never interprets them.
	Providers         []interface{}
	PlatformProviders []interface{}
}

// App is a populated application ready to render: the document and the
// bootstrapped root component views. Root views must have their host
// elements attached to the document; hosts left nil are located by
// component selector.
type App struct {
	Doc   *html.Node
	Roots []*view.View
}

// Render runs the full annotate-and-serialize pipeline and returns the
// HTML string of the document, hydration attributes and transfer-state
// script included.
//
// Failure semantics follow the serialization error taxonomy: structural
// errors and missing anchors fail the returned error; unreachable path
// targets have already been reported and degrade to client-side
// mismatches; hook failures are logged as warnings and do not stop the
// render.
func Render(ctx context.Context, app *App, opts Options) (string, error) {
	if app == nil || len(app.Roots) == 0 {
		return "", fmt.Errorf("render requires at least one root component")
	}
	appID := opts.AppID
	if appID == "" {
		appID = "bw-" + uuid.NewString()[:8]
	}

	if err := prepareDocument(app, opts); err != nil {
		return "", err
	}

	if opts.Stabilizer != nil {
		if err := opts.Stabilizer.WhenStable(ctx); err != nil {
			return "", fmt.Errorf("waiting for application stability: %w", err)
		}
	}
	observability.RecordBreadcrumb("render", "application stable", nil)

	state := transfer.NewState()
	runHooks(ctx, opts, state)

	table, err := annotate(app, opts)
	if err != nil {
		return "", err
	}
	state.Set(hydration.TransferKey, table)

	if err := state.Embed(app.Doc, appID); err != nil {
		return "", err
	}
	observability.RecordBreadcrumb("transfer-state", "embedded transfer state", map[string]interface{}{
		"keys": state.Len(),
	})

	var buf bytes.Buffer
	if err := html.Render(&buf, app.Doc); err != nil {
		return "", fmt.Errorf("rendering document: %w", err)
	}
	return buf.String(), nil
}

// prepareDocument parses the document shell when the application was
// built detached, and locates hosts left unresolved by selector.
func prepareDocument(app *App, opts Options) error {
	if app.Doc == nil {
		if opts.Document == "" {
			return fmt.Errorf("application has no document and no document shell was configured")
		}
		doc, err := html.Parse(strings.NewReader(opts.Document))
		if err != nil {
			return fmt.Errorf("parsing document shell: %w", err)
		}
		app.Doc = doc
	}
	for _, root := range app.Roots {
		if root.Host != nil {
			continue
		}
		host := dom.FindByTag(app.Doc, root.Selector)
		if host == nil {
			return fmt.Errorf("no host element for selector %q in document: %w", root.Selector, hydration.ErrMissingAnchor)
		}
		root.Host = host
	}
	return nil
}

// runHooks fans the pre-serialize hooks out concurrently and waits for
// all of them. Failures are reported as warnings and swallowed: a hook
// that could not flush its state degrades that state, not the render.
func runHooks(ctx context.Context, opts Options, state *transfer.State) {
	if len(opts.Hooks) == 0 {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, hook := range opts.Hooks {
		hook := hook
		g.Go(func() error {
			if err := hook(gctx, state); err != nil {
				reportWarning(err, opts, "pre-serialize hook")
			}
			return nil
		})
	}
	// Hooks never return errors into the group, so Wait only synchronizes.
	_ = g.Wait()
	observability.RecordBreadcrumb("render", "pre-serialize hooks completed", map[string]interface{}{
		"count": len(opts.Hooks),
	})
}

// annotate runs the hydration core over every root, recovering from
// serializer panics so they surface as reported errors instead of
// killing the process serving other renders.
func annotate(app *App, opts Options) (table []*hydration.Annotation, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicErr := &observability.SerializePanicError{
				Component:  "",
				Operation:  "annotate",
				PanicValue: r,
			}
			if reporter := observability.GetErrorReporter(); reporter != nil {
				reporter.ReportPanic(panicErr, &observability.ErrorContext{
					Operation:   "annotate",
					URL:         opts.URL,
					Slot:        -1,
					Timestamp:   time.Now(),
					Breadcrumbs: observability.GetBreadcrumbs(),
					StackTrace:  debug.Stack(),
				})
			}
			err = panicErr
		}
	}()

	store := hydration.NewStore()
	for _, root := range app.Roots {
		if aerr := store.Annotate(root.Host, root); aerr != nil {
			return nil, aerr
		}
		hydration.WriteServerContext(root.Host, opts.ServerContext)
	}
	return store.Finalize()
}

// reportWarning routes a non-fatal render problem to the configured
// reporter.
func reportWarning(err error, opts Options, operation string) {
	reporter := observability.GetErrorReporter()
	if reporter == nil {
		return
	}
	reporter.ReportError(err, &observability.ErrorContext{
		Operation: operation,
		URL:       opts.URL,
		Slot:      -1,
		Timestamp: time.Now(),
	})
}
