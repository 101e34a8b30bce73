package pipeline

import "sync/atomic"

// published pairs one published Frame with the simulation time it was
// published at.
type published struct {
	frame Frame
	tSim  float64
}

// FrameBuffer hands frames from the logic loop to the render loop. It
// holds at most the three most recently published frames (capacity 3,
// a triple-buffering allowance, though Pull only ever needs the two most
// recent); publication swaps in a whole new
// generation atomically, so a concurrent Pull sees either the old state
// or the new one in full, never a partial write. Pulling does not
// consume: the same pair can be read by any number of render iterations
// until the next Publish.
type FrameBuffer struct {
	generations atomic.Pointer[[]published]
}

// NewFrameBuffer returns an empty buffer.
func NewFrameBuffer() *FrameBuffer {
	fb := &FrameBuffer{}
	empty := make([]published, 0, 3)
	fb.generations.Store(&empty)
	return fb
}

// Publish adds frame, published at tSim, as the newest generation,
// retaining at most the three most recent.
func (fb *FrameBuffer) Publish(frame Frame, tSim float64) {
	for {
		old := fb.generations.Load()
		next := make([]published, 0, 3)
		next = append(next, (*old)...)
		next = append(next, published{frame: frame, tSim: tSim})
		if len(next) > 3 {
			next = next[len(next)-3:]
		}
		if fb.generations.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Pull returns the two most recently published frames and the
// simulation time each was published at. After exactly one publish,
// prev and curr are the same frame (the degenerate pair); after zero
// publishes, ok is false.
func (fb *FrameBuffer) Pull() (prev, curr Frame, tPrev, tCurr float64, ok bool) {
	gens := *fb.generations.Load()
	if len(gens) == 0 {
		return Frame{}, Frame{}, 0, 0, false
	}

	last := gens[len(gens)-1]
	if len(gens) == 1 {
		return last.frame, last.frame, last.tSim, last.tSim, true
	}

	before := gens[len(gens)-2]
	return before.frame, last.frame, before.tSim, last.tSim, true
}
