package observability

import (
	"log"
	"sync"
	"time"
)

// ConsoleReporter is a simple error reporter that logs errors to the
// console. It's designed for development and debugging, providing
// immediate feedback about serialization problems without requiring
// external services.
//
// The reporter supports two modes:
//   - Verbose mode: Includes full stack traces in output
//   - Non-verbose mode: Only logs error messages without stack traces
//
// Thread-safe: All methods are safe for concurrent use.
//
// Example usage:
//
//	// Development: Verbose console reporter
//	reporter := NewConsoleReporter(true)
//	SetErrorReporter(reporter)
type ConsoleReporter struct {
	// verbose controls whether stack traces are included in output
	verbose bool

	// mu protects concurrent access to log output
	mu sync.Mutex
}

// NewConsoleReporter creates a new console error reporter.
//
// Parameters:
//   - verbose: If true, includes stack traces in error output.
//     If false, only logs error messages.
//
// Returns:
//   - *ConsoleReporter: A new console reporter instance
//
// Thread-safe: The returned reporter is safe for concurrent use.
func NewConsoleReporter(verbose bool) *ConsoleReporter {
	return &ConsoleReporter{
		verbose: verbose,
	}
}

// ReportPanic reports a panic that occurred during serialization.
// Logs the panic with component and operation information.
//
// Example output:
//
//	2024/01/01 12:00:00 [ERROR] Panic serializing component 'app-root' during 'container': index out of range
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func (r *ConsoleReporter) ReportPanic(err *SerializePanicError, ctx *ErrorContext) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Printf("[ERROR] Panic serializing component '%s' during '%s': %v",
		ctx.Component, ctx.Operation, err.PanicValue)

	if r.verbose && len(ctx.StackTrace) > 0 {
		log.Printf("Stack trace:\n%s", ctx.StackTrace)
	}
}

// ReportError reports a general error. The hydration core routes
// recoverable path failures here, so in development every slot the
// client will fail to hydrate shows up in the server log.
//
// Example output:
//
//	2024/01/01 12:00:00 [WARN] Hydration: component 'app-list' slot 7 (path): hydration path for component "app-list" slot 7: sibling walk ran off the end: target node is not reachable from anchor
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func (r *ConsoleReporter) ReportError(err error, ctx *ErrorContext) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Printf("[WARN] Hydration: component '%s' slot %d (%s): %v",
		ctx.Component, ctx.Slot, ctx.Operation, err)

	if r.verbose && len(ctx.StackTrace) > 0 {
		log.Printf("Stack trace:\n%s", ctx.StackTrace)
	}
}

// Flush ensures all pending errors are sent before shutdown.
// For ConsoleReporter, this is a no-op since console output is immediate.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func (r *ConsoleReporter) Flush(timeout time.Duration) error {
	// Console output is immediate, nothing to flush
	return nil
}
