// Package async provides the concurrency primitives the engine core is
// built on: strands (FIFO serialized execution over a worker pool),
// cooperative lifecycle tokens, and the execution context that owns the
// worker pool and mints fresh strands.
package async

import (
	"sync/atomic"
)

// LifecycleToken is a cooperative cancellation flag observed at every
// suspension point of a long-running task. It exposes two independent
// monotonic flags, stop_requested and finished; either may be set at most
// once and both are safe to read from any goroutine.
type LifecycleToken struct {
	stopRequested atomic.Bool
	finished      atomic.Bool
}

// NewLifecycleToken returns a token with both flags clear.
func NewLifecycleToken() *LifecycleToken {
	return &LifecycleToken{}
}

// RequestStop sets stop_requested. Idempotent: setting it twice has no
// additional effect.
func (t *LifecycleToken) RequestStop() {
	t.stopRequested.Store(true)
}

// StopRequested reports whether RequestStop has been called.
func (t *LifecycleToken) StopRequested() bool {
	return t.stopRequested.Load()
}

// MarkFinished sets finished. Owners of a loop call this once, after the
// loop has drained and returned, so other strands can observe completion
// without racing on a channel close.
func (t *LifecycleToken) MarkFinished() {
	t.finished.Store(true)
}

// Finished reports whether MarkFinished has been called.
func (t *LifecycleToken) Finished() bool {
	return t.finished.Load()
}
