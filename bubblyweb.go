// Package bubblyweb provides the server-side rendering core of a
// component-oriented web UI framework for Go.
//
// BubblyWeb renders a populated component view tree to HTML and emits,
// alongside it, the hydration annotations the client uses to re-attach
// its freshly constructed view tree to the DOM nodes already on the
// page - without destroying and re-creating them.
//
// # Quick Start
//
//	import (
//	    "github.com/newbpydev/bubblyweb"
//	    "github.com/newbpydev/bubblyweb/pkg/platform"
//	)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    app := buildApp(r) // populate the view tree for this request
//	    out, err := platform.Render(r.Context(), app, platform.Options{
//	        AppID:         "shop",
//	        URL:           r.URL.String(),
//	        ServerContext: "ssr",
//	    })
//	    if err != nil {
//	        http.Error(w, err.Error(), http.StatusInternalServerError)
//	        return
//	    }
//	    io.WriteString(w, out)
//	}
//
// # Core Types
//
// The following types are re-exported from pkg/hydration and
// pkg/platform for convenience:
//   - Annotation: the per-host hydration description
//   - Store: the per-render annotation accumulator
//   - RenderOptions: configuration for one render
//   - App: a populated application ready to render
//
// # Subpackages
//
// For additional functionality, import the subpackages directly:
//
//	import "github.com/newbpydev/bubblyweb/pkg/hydration"     // Annotation core
//	import "github.com/newbpydev/bubblyweb/pkg/view"          // View-tree model
//	import "github.com/newbpydev/bubblyweb/pkg/transfer"      // Transfer state
//	import "github.com/newbpydev/bubblyweb/pkg/observability" // Error reporting
//	import "github.com/newbpydev/bubblyweb/pkg/monitoring"    // Metrics
package bubblyweb

import (
	"github.com/newbpydev/bubblyweb/pkg/hydration"
	"github.com/newbpydev/bubblyweb/pkg/platform"
)

// =============================================================================
// Core Types - Re-exported for convenient access
// =============================================================================

// Annotation describes, for one component host, how the client can
// re-locate the DOM nodes whose position is not derivable from the
// static template alone.
type Annotation = hydration.Annotation

// Store accumulates the annotations of one render and assigns the table
// keys written into ngh attributes.
type Store = hydration.Store

// App is a populated application ready to render: the document plus the
// bootstrapped root component views.
type App = platform.App

// RenderOptions configures one render: application id, document shell,
// server context tag and pre-serialize hooks.
type RenderOptions = platform.Options

// Render runs the full annotate-and-serialize pipeline and returns the
// final HTML string.
var Render = platform.Render

// =============================================================================
// Wire Contract
// =============================================================================

// TransferKey is the transfer-state key carrying the annotation table.
const TransferKey = hydration.TransferKey

// IndexAttr is the attribute carrying a host's annotation table index.
const IndexAttr = hydration.IndexAttr
