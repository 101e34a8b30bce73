package async

// Strand is a FIFO, single-consumer queue of work bound to an
// ExecutionContext's worker pool. Submitting work to a strand from any
// goroutine is legal; execution of work items submitted to the same
// strand is strictly serialized and never overlaps, matching the
// "await-on-strand" discipline the rest of the engine relies on instead of
// locking shared subsystem state directly.
//
// Each strand owns exactly one long-lived consumer goroutine, spawned on
// the parent ExecutionContext's pool at mint time and drained until the
// context shuts down. Goroutines are cheap enough that this is simpler,
// and just as correct, as a pump-on-demand scheme.
type Strand struct {
	pool  *ExecutionContext
	queue chan func()
}

func newStrand(pool *ExecutionContext) *Strand {
	s := &Strand{
		pool:  pool,
		queue: make(chan func(), 256),
	}
	pool.spawn(s.drain)
	return s
}

func (s *Strand) drain() {
	for {
		select {
		case fn := <-s.queue:
			fn()
		case <-s.pool.stopping():
			// Finish whatever is already queued, then exit; a strand
			// never abandons work silently on shutdown.
			for {
				select {
				case fn := <-s.queue:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Submit enqueues fn for execution on this strand. fn runs strictly after
// every previously submitted fn on the same strand has returned, and never
// concurrently with another fn on the same strand.
func (s *Strand) Submit(fn func()) {
	s.queue <- fn
}

// Post always reschedules fn onto the strand, even if the caller is
// already executing on it. Use this when fn must not run reentrantly
// within the caller's own stack frame.
func (s *Strand) Post(fn func()) {
	s.Submit(fn)
}

// Run submits fn and blocks the caller until it has executed. This is the
// synchronous building block "await-on-strand" is expressed with in Go: a
// blocking call that is safe to invoke from any goroutine, including
// another strand's worker, as long as the two strands never wait on each
// other — avoiding that deadlock is the caller's responsibility, not the
// primitive's.
func (s *Strand) Run(fn func()) {
	done := make(chan struct{})
	s.Submit(func() {
		defer close(done)
		fn()
	})
	<-done
}
