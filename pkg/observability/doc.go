// Package observability provides error tracking and breadcrumbs for
// BubblyWeb server-side rendering.
//
// # Overview
//
// Server-side rendering fails in two very different ways: structural
// problems abort the render, while hydration path failures degrade
// silently on the server and only surface as mismatches on the client.
// This package makes both visible: a pluggable error reporting system
// routes them to the console in development or to Sentry in production,
// and breadcrumb trails record which components were serialized before a
// failure.
//
// # Error Reporting
//
// The package supports multiple error reporting backends through the
// ErrorReporter interface:
//
//   - ConsoleReporter: Logs errors to the console (development)
//   - SentryReporter: Sends errors to Sentry (production)
//   - Custom implementations: Implement ErrorReporter for other services
//
// Basic setup:
//
//	import "github.com/newbpydev/bubblyweb/pkg/observability"
//
//	// Development: Use console reporter
//	observability.SetErrorReporter(observability.NewConsoleReporter(true))
//
//	// Production: Use Sentry
//	reporter, err := observability.NewSentryReporter(os.Getenv("SENTRY_DSN"),
//	    observability.WithEnvironment("production"),
//	    observability.WithRelease("v1.0.0"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	observability.SetErrorReporter(reporter)
//	defer reporter.Flush(5 * time.Second)
//
// # Breadcrumbs
//
// Breadcrumbs provide a trail of events leading up to an error. The
// hydration core records one per serialized component; the bootstrap
// façade records render lifecycle milestones.
//
//	observability.RecordBreadcrumb("render", "application stable", nil)
//	crumbs := observability.GetBreadcrumbs()
//	observability.ClearBreadcrumbs()
//
// # Integration with the hydration core
//
// Recoverable failures (a DOM path target that cannot be reached from
// its anchor) are reported through the configured reporter with the
// component selector, slot index and operation; the render continues and
// the affected slot hydrates with a precise client-side mismatch report.
// Fatal failures (malformed view trees, missing host anchors) abort the
// render and are returned to the caller as errors without going through
// the reporter. A serializer panic is recovered by the façade and reported
// through ReportPanic with the full breadcrumb trail before the render
// fails.
//
// # Thread Safety
//
// All functions and types in this package are thread-safe. A single
// render is serialized on one goroutine, but one server process runs
// many renders concurrently against the shared reporter.
package observability
