package observability

import (
	"fmt"
	"sync"
	"time"
)

// SerializePanicError wraps a panic that occurred while serializing a
// component during server-side rendering. The render fails, but the
// wrapped form lets the bootstrap façade report the panic with full
// context before surfacing the error.
//
// This type is defined here to avoid import cycles between the hydration
// core and the observability package.
type SerializePanicError struct {
	// Component is the selector of the component being serialized
	Component string
	// Operation is the serialization step that panicked (e.g. "path", "container")
	Operation string
	// PanicValue is the value passed to panic()
	PanicValue interface{}
}

// Error implements the error interface for SerializePanicError.
func (e *SerializePanicError) Error() string {
	return fmt.Sprintf("panic while serializing component '%s' during '%s': %v",
		e.Component, e.Operation, e.PanicValue)
}

// ErrorReporter is a pluggable interface for error tracking backends.
// Implementations can send errors to services like Sentry, Rollbar, or
// custom backends.
//
// The interface is optional - if no reporter is configured via
// SetErrorReporter, errors are silently ignored with zero overhead
// (just a nil check).
//
// Thread-safe: All methods must be safe for concurrent use by multiple
// goroutines. The serializer itself is single-threaded per render, but
// multiple renders may report concurrently.
//
// Example usage:
//
//	// Development: Console reporter
//	reporter := NewConsoleReporter(true)
//	SetErrorReporter(reporter)
//
//	// Production: Sentry reporter
//	reporter, err := NewSentryReporter(os.Getenv("SENTRY_DSN"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	SetErrorReporter(reporter)
//	defer reporter.Flush(5 * time.Second)
type ErrorReporter interface {
	// ReportPanic reports a panic that occurred during serialization.
	// This is called by the bootstrap façade when the serializer panics.
	//
	// Parameters:
	//   - err: The SerializePanicError containing panic details
	//   - ctx: Rich context about where and when the panic occurred
	//
	// Thread-safe: Must be safe to call concurrently.
	ReportPanic(err *SerializePanicError, ctx *ErrorContext)

	// ReportError reports a general error. The hydration core calls this
	// for recoverable failures (unreachable path targets); callers can
	// also report render-level errors manually.
	//
	// Parameters:
	//   - err: The error to report
	//   - ctx: Rich context about where and when the error occurred
	//
	// Thread-safe: Must be safe to call concurrently.
	ReportError(err error, ctx *ErrorContext)

	// Flush ensures all pending errors are sent before shutdown.
	// Call this before the server process exits so no errors are lost.
	//
	// Parameters:
	//   - timeout: Maximum time to wait for pending errors to be sent
	//
	// Returns:
	//   - error: Non-nil if flush failed or timed out
	//
	// Thread-safe: Must be safe to call concurrently.
	Flush(timeout time.Duration) error
}

// ErrorContext provides rich context about where and when an error
// occurred during a server-side render. All fields are optional, but
// providing more context leads to better error reports.
//
// Example:
//
//	ctx := &ErrorContext{
//	    Component: "app-user-list",
//	    Slot:      7,
//	    Operation: "path",
//	    RenderID:  "r-8f3a",
//	    Timestamp: time.Now(),
//	    Tags: map[string]string{
//	        "environment": "production",
//	    },
//	}
type ErrorContext struct {
	// Component is the selector of the component being serialized.
	// Example: "app-root", "app-user-list"
	Component string

	// Slot is the absolute slot index involved, or -1 when the error is
	// not slot-addressed.
	Slot int

	// Operation is the serialization step that failed.
	// Example: "path", "container", "render"
	Operation string

	// RenderID identifies the render this error belongs to, useful when
	// one process serves many renders concurrently.
	RenderID string

	// URL is the request URL being rendered, when known.
	URL string

	// Timestamp is when the error occurred.
	Timestamp time.Time

	// Tags are key-value pairs for filtering and grouping errors.
	// Tags should be low-cardinality values (not unique per error).
	Tags map[string]string

	// Extra contains arbitrary additional data about the error,
	// including high-cardinality values that don't belong in Tags.
	Extra map[string]interface{}

	// Breadcrumbs is a trail of serialization events leading up to the
	// error, most recent last.
	Breadcrumbs []Breadcrumb

	// StackTrace is the stack trace from where the error occurred.
	// Use debug.Stack() to capture it.
	StackTrace []byte
}

// Breadcrumb represents a single event in the trail leading to an error.
// Inspired by Sentry's breadcrumb system.
type Breadcrumb struct {
	// Type categorizes the breadcrumb by its nature.
	//
	// Common types:
	//   - "render": render lifecycle events
	//   - "hydration": serializer progress
	//   - "error": error or warning
	//   - "debug": debug information
	Type string

	// Category is a subcategory for grouping breadcrumbs, more specific
	// than Type. Examples: "hydration", "transfer-state", "stability".
	Category string

	// Message is a concise human-readable description.
	// Example: "serialized component app-root"
	Message string

	// Level indicates severity: "debug", "info", "warning" or "error".
	Level string

	// Timestamp is when the breadcrumb was created.
	Timestamp time.Time

	// Data contains arbitrary additional data about the breadcrumb.
	Data map[string]interface{}
}

// Global error reporter state
var (
	// globalReporterMu protects access to globalReporter
	globalReporterMu sync.RWMutex

	// globalReporter is the currently configured error reporter
	// nil means no reporter is configured (errors are silently ignored)
	globalReporter ErrorReporter
)

// SetErrorReporter configures the global error reporter.
// Pass nil to disable error reporting.
//
// The reporter is used by the hydration core for recoverable path
// failures and by the bootstrap façade for render-level errors.
//
// Parameters:
//   - reporter: The error reporter to use, or nil to disable reporting
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func SetErrorReporter(reporter ErrorReporter) {
	globalReporterMu.Lock()
	defer globalReporterMu.Unlock()
	globalReporter = reporter
}

// GetErrorReporter returns the currently configured error reporter.
// Returns nil if no reporter is configured.
//
// Example:
//
//	if reporter := GetErrorReporter(); reporter != nil {
//	    reporter.ReportError(err, &ErrorContext{
//	        Component: "app-root",
//	        Timestamp: time.Now(),
//	    })
//	}
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func GetErrorReporter() ErrorReporter {
	globalReporterMu.RLock()
	defer globalReporterMu.RUnlock()
	return globalReporter
}
