package observability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryReporter is an error reporter that sends errors to Sentry.
// It's designed for production use, providing centralized error tracking
// with rich context, tags, and breadcrumbs.
//
// The reporter uses Sentry's Hub API for thread-safe error reporting
// and supports customization via functional options.
//
// Thread-safe: All methods are safe for concurrent use.
//
// Example usage:
//
//	reporter, err := NewSentryReporter(
//	    os.Getenv("SENTRY_DSN"),
//	    WithEnvironment("production"),
//	    WithRelease("v1.0.0"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	SetErrorReporter(reporter)
//	defer reporter.Flush(5 * time.Second)
type SentryReporter struct {
	// hub is the Sentry hub used for error reporting
	hub *sentry.Hub
}

// SentryOption is a functional option for configuring SentryReporter.
// Options are applied to the Sentry ClientOptions during initialization.
type SentryOption func(*sentry.ClientOptions)

// WithBeforeSend configures a BeforeSend hook for the Sentry client.
// The hook is called before each event is sent, allowing you to
// filter or modify events.
//
// Example:
//
//	reporter, err := NewSentryReporter(
//	    dsn,
//	    WithBeforeSend(func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
//	        // Drop noisy path warnings from health-check renders
//	        if event.Tags["url"] == "/healthz" {
//	            return nil
//	        }
//	        return event
//	    }),
//	)
func WithBeforeSend(fn func(*sentry.Event, *sentry.EventHint) *sentry.Event) SentryOption {
	return func(opts *sentry.ClientOptions) {
		opts.BeforeSend = fn
	}
}

// WithDebug enables debug mode for the Sentry client.
// When enabled, Sentry logs detailed information about event processing
// to stderr.
func WithDebug(debug bool) SentryOption {
	return func(opts *sentry.ClientOptions) {
		opts.Debug = debug
	}
}

// WithEnvironment sets the environment tag for all events.
//
// Parameters:
//   - environment: Environment name (e.g., "production", "staging")
func WithEnvironment(environment string) SentryOption {
	return func(opts *sentry.ClientOptions) {
		opts.Environment = environment
	}
}

// WithRelease sets the release version for all events.
//
// Parameters:
//   - release: Release identifier (e.g., "v1.0.0", "abc123")
func WithRelease(release string) SentryOption {
	return func(opts *sentry.ClientOptions) {
		opts.Release = release
	}
}

// NewSentryReporter creates a new Sentry error reporter.
//
// The reporter initializes the Sentry SDK with the provided DSN and
// options. An empty DSN is allowed and will disable sending events to
// Sentry (useful for testing).
//
// Parameters:
//   - dsn: Sentry Data Source Name (DSN) for your project.
//     Pass empty string to disable sending (for testing).
//   - opts: Optional configuration options (WithDebug, WithBeforeSend, etc.)
//
// Returns:
//   - *SentryReporter: A new Sentry reporter instance
//   - error: Non-nil if Sentry initialization fails
//
// Thread-safe: The returned reporter is safe for concurrent use.
func NewSentryReporter(dsn string, opts ...SentryOption) (*SentryReporter, error) {
	// Create default client options
	clientOpts := sentry.ClientOptions{
		Dsn: dsn,
	}

	// Apply functional options
	for _, opt := range opts {
		opt(&clientOpts)
	}

	// Initialize Sentry SDK
	err := sentry.Init(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	// Create reporter with current hub
	return &SentryReporter{
		hub: sentry.CurrentHub(),
	}, nil
}

// ReportPanic reports a panic that occurred during serialization.
// Sends the panic to Sentry with rich context including tags, extras,
// and breadcrumbs.
//
// The panic is captured as an exception in Sentry with:
//   - Tags: component selector, operation, and any custom tags from ctx
//   - Extras: panic value and any custom extras from ctx
//   - Breadcrumbs: Serialization trail leading to the panic
//   - Stack trace: From ctx.StackTrace
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func (r *SentryReporter) ReportPanic(err *SerializePanicError, ctx *ErrorContext) {
	// Use WithScope to add context without affecting other events
	r.hub.WithScope(func(scope *sentry.Scope) {
		r.applyContext(scope, ctx)

		// Set panic value as extra
		scope.SetExtra("panic_value", err.PanicValue)

		// Capture the panic as an exception
		r.hub.CaptureException(fmt.Errorf("panic serializing component '%s' during '%s': %v",
			ctx.Component, ctx.Operation, err.PanicValue))
	})
}

// ReportError reports a general error.
// Sends the error to Sentry with rich context including tags, extras,
// and breadcrumbs.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func (r *SentryReporter) ReportError(err error, ctx *ErrorContext) {
	// Use WithScope to add context without affecting other events
	r.hub.WithScope(func(scope *sentry.Scope) {
		r.applyContext(scope, ctx)

		// Capture the error
		r.hub.CaptureException(err)
	})
}

// applyContext copies the error context onto a Sentry scope.
func (r *SentryReporter) applyContext(scope *sentry.Scope, ctx *ErrorContext) {
	scope.SetTag("component", ctx.Component)
	scope.SetTag("operation", ctx.Operation)
	scope.SetTag("slot", strconv.Itoa(ctx.Slot))
	if ctx.RenderID != "" {
		scope.SetTag("render_id", ctx.RenderID)
	}
	if ctx.URL != "" {
		scope.SetTag("url", ctx.URL)
	}

	// Set custom tags from context
	for key, value := range ctx.Tags {
		scope.SetTag(key, value)
	}

	// Set custom extras from context
	for key, value := range ctx.Extra {
		scope.SetExtra(key, value)
	}

	// Add breadcrumbs
	for _, bc := range ctx.Breadcrumbs {
		scope.AddBreadcrumb(&sentry.Breadcrumb{
			Type:      bc.Type,
			Category:  bc.Category,
			Message:   bc.Message,
			Level:     sentry.Level(bc.Level),
			Timestamp: bc.Timestamp,
			Data:      bc.Data,
		}, 100) // Max 100 breadcrumbs
	}
}

// Flush ensures all pending errors are sent before shutdown.
// Blocks until all events are sent or the timeout is reached.
//
// Call this before the server process exits to ensure no errors are
// lost.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func (r *SentryReporter) Flush(timeout time.Duration) error {
	// sentry.Flush reports false when the timeout expired first
	if !sentry.Flush(timeout) {
		return fmt.Errorf("sentry flush timed out after %s", timeout)
	}
	return nil
}
