// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about surface mutations, export runs, and outbound HTTP
// calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetExportHooks(&myExportHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Export().OnCaptureStart(ctx)
//	// ... capture ...
//	observability.Export().OnCaptureComplete(ctx, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Surface Hooks
// =============================================================================

// SurfaceHooks receives events from the interactive graph surface.
type SurfaceHooks interface {
	// OnDiagramReplaced records a wholesale diagram replacement.
	OnDiagramReplaced(ctx context.Context, nodeCount, edgeCount int)

	// OnNodeActivated records a node click forwarded to a collaborator.
	OnNodeActivated(ctx context.Context, nodeID string)

	// OnNodeDeleteRequested records a delete intent forwarded to a collaborator.
	OnNodeDeleteRequested(ctx context.Context, nodeID string)
}

// =============================================================================
// Export Hooks
// =============================================================================

// ExportHooks receives events from the capture and export pipeline.
type ExportHooks interface {
	// Capture events
	OnCaptureStart(ctx context.Context)
	OnCaptureComplete(ctx context.Context, size int, duration time.Duration, err error)

	// Export events
	OnExportStart(ctx context.Context, format string)
	OnExportComplete(ctx context.Context, format string, artifacts int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSurfaceHooks is a no-op implementation of SurfaceHooks.
type NoopSurfaceHooks struct{}

func (NoopSurfaceHooks) OnDiagramReplaced(context.Context, int, int)   {}
func (NoopSurfaceHooks) OnNodeActivated(context.Context, string)       {}
func (NoopSurfaceHooks) OnNodeDeleteRequested(context.Context, string) {}

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnCaptureStart(context.Context)                                      {}
func (NoopExportHooks) OnCaptureComplete(context.Context, int, time.Duration, error)        {}
func (NoopExportHooks) OnExportStart(context.Context, string)                               {}
func (NoopExportHooks) OnExportComplete(context.Context, string, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	surfaceHooks SurfaceHooks = NoopSurfaceHooks{}
	exportHooks  ExportHooks  = NoopExportHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetSurfaceHooks registers custom surface hooks.
// This should be called once at application startup before any surface operations.
func SetSurfaceHooks(h SurfaceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		surfaceHooks = h
	}
}

// SetExportHooks registers custom export hooks.
// This should be called once at application startup before any export operations.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Surface returns the registered surface hooks.
func Surface() SurfaceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return surfaceHooks
}

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	surfaceHooks = NoopSurfaceHooks{}
	exportHooks = NoopExportHooks{}
	httpHooks = NoopHTTPHooks{}
}
