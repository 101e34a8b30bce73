package async

import (
	"sync"
)

// ExecutionContext is a pool of worker goroutines plus the ability to mint
// fresh strands bound to it. In cmd/engine only the world streamer owns a
// strand minted from it; the ECS registry owns none, the logic loop runs
// on its own goroutine, and the render loop runs inside ebiten's Draw
// callback.
type ExecutionContext struct {
	wg   sync.WaitGroup
	stop chan struct{}
}

// NewExecutionContext creates a pool. workers is not used: every strand
// gets its own drain goroutine and every Go call spawns one more, so the
// number of goroutines is not limited by it, and true parallelism is
// bounded only by GOMAXPROCS.
func NewExecutionContext(workers int) *ExecutionContext {
	return &ExecutionContext{
		stop: make(chan struct{}),
	}
}

func (c *ExecutionContext) stopping() <-chan struct{} {
	return c.stop
}

func (c *ExecutionContext) spawn(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

// NewStrand mints a fresh strand on this pool.
func (c *ExecutionContext) NewStrand() *Strand {
	return newStrand(c)
}

// Go runs fn on a freshly spawned, unserialized goroutine tracked by this
// pool's shutdown drain. Use this for one-off parallel work (e.g. a
// scheduler layer's per-system tasks) that doesn't need strand ordering.
func (c *ExecutionContext) Go(fn func()) {
	c.spawn(fn)
}

// Shutdown signals every strand drain loop to finish its queued work and
// exit, then blocks until all of them, and any Go-spawned goroutines,
// have returned. Resources owned by strands on this context must be torn
// down by the caller after Shutdown returns, in the reverse of their
// construction order.
func (c *ExecutionContext) Shutdown() {
	close(c.stop)
	c.wg.Wait()
}
