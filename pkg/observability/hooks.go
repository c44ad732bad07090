// Package observability provides hooks for progress reporting and metrics.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about batch and per-file execution.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are called from worker goroutines, so implementations must be safe
// for concurrent use.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTaskHooks(&progressHooks{})
//	    // ... run application
//	}
//
// The batch runner calls hooks to emit events:
//
//	observability.Task().OnTaskStart(ctx, input)
//	// ... watermark the file ...
//	observability.Task().OnTaskComplete(ctx, input, output, pages, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Batch Hooks
// =============================================================================

// BatchHooks receives events for a whole run.
type BatchHooks interface {
	// OnBatchStart is called once the options are validated, before any
	// task starts.
	OnBatchStart(ctx context.Context, tasks, workers int, dryRun bool)

	// OnBatchComplete is called after every task has finished.
	OnBatchComplete(ctx context.Context, succeeded, failed int, duration time.Duration)
}

// =============================================================================
// Task Hooks
// =============================================================================

// TaskHooks receives events for single files.
type TaskHooks interface {
	// OnTaskStart records that a worker picked up input.
	OnTaskStart(ctx context.Context, input string)

	// OnTaskComplete records the result of one file. err is nil on success.
	OnTaskComplete(ctx context.Context, input, output string, pages int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBatchHooks is a no-op implementation of BatchHooks.
type NoopBatchHooks struct{}

func (NoopBatchHooks) OnBatchStart(context.Context, int, int, bool)             {}
func (NoopBatchHooks) OnBatchComplete(context.Context, int, int, time.Duration) {}

// NoopTaskHooks is a no-op implementation of TaskHooks.
type NoopTaskHooks struct{}

func (NoopTaskHooks) OnTaskStart(context.Context, string) {}
func (NoopTaskHooks) OnTaskComplete(context.Context, string, string, int, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	batchHooks BatchHooks = NoopBatchHooks{}
	taskHooks  TaskHooks  = NoopTaskHooks{}
	hooksMu    sync.RWMutex
)

// SetBatchHooks registers custom batch hooks.
// This should be called once at application startup before any run.
func SetBatchHooks(h BatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		batchHooks = h
	}
}

// SetTaskHooks registers custom task hooks.
// This should be called once at application startup before any run.
func SetTaskHooks(h TaskHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		taskHooks = h
	}
}

// Batch returns the registered batch hooks.
func Batch() BatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return batchHooks
}

// Task returns the registered task hooks.
func Task() TaskHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return taskHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	batchHooks = NoopBatchHooks{}
	taskHooks = NoopTaskHooks{}
}
