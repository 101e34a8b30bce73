package pipeline

import (
	"context"
	"time"

	"forgecore/internal/async"
	"forgecore/internal/ecs"
)

// LogicState is the shared state every logic stage operates over. Stages
// live in internal/pipeline/stages.go; LogicState only names what they
// all need a handle to.
type LogicState struct {
	Registry *ecs.Registry
}

// LogicStageFunc is one step of the configured logic pipeline S0..Sk-1.
// A stage should poll token.StopRequested() before doing any real work
// and return promptly if it is set.
type LogicStageFunc func(ctx context.Context, token *async.LifecycleToken, dt float64, frameOut *Frame, state *LogicState) error

// LogicLoop runs the fixed-timestep accumulator loop: real elapsed wall
// time feeds an accumulator, clamped against spiral-of-death, and one
// tick (every configured stage, in order) runs for each whole Δ the
// accumulator holds.
type LogicLoop struct {
	stages []LogicStageFunc
	state  *LogicState
	buffer *FrameBuffer
	token  *async.LifecycleToken

	tickDuration time.Duration
	accClamp     time.Duration

	tSim float64
}

// NewLogicLoop returns a loop that runs stages in order at a fixed
// tickDuration, publishing into buffer.
func NewLogicLoop(stages []LogicStageFunc, state *LogicState, buffer *FrameBuffer, token *async.LifecycleToken, tickDuration time.Duration) *LogicLoop {
	return &LogicLoop{
		stages:       stages,
		state:        state,
		buffer:       buffer,
		token:        token,
		tickDuration: tickDuration,
		accClamp:     5 * tickDuration,
	}
}

// Run drains ticks until ctx is cancelled or the token's stop flag is
// observed, then marks the token finished. It blocks the calling
// goroutine; callers run it on its own strand or goroutine.
func (l *LogicLoop) Run(ctx context.Context) error {
	defer l.token.MarkFinished()

	delta := l.tickDuration.Seconds()
	last := time.Now()
	var acc time.Duration

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if l.token.StopRequested() {
			return nil
		}

		now := time.Now()
		acc += now.Sub(last)
		last = now
		if acc > l.accClamp {
			acc = l.accClamp
		}

		for acc >= l.tickDuration {
			if l.token.StopRequested() {
				return nil
			}
			if err := l.runTick(ctx, delta); err != nil {
				return err
			}
			acc -= l.tickDuration
		}

		time.Sleep(time.Millisecond)
	}
}

func (l *LogicLoop) runTick(ctx context.Context, delta float64) error {
	frame := NewFrame()
	for _, stage := range l.stages {
		if l.token.StopRequested() {
			return nil
		}
		if err := stage(ctx, l.token, delta, &frame, l.state); err != nil {
			return err
		}
	}

	l.tSim += delta
	frame.TSim = l.tSim
	l.buffer.Publish(frame, l.tSim)
	return nil
}

// RunTick executes exactly one tick regardless of the accumulator,
// publishing its frame. Exposed for tests and for callers driving the
// loop manually instead of through Run's wall-clock accumulator.
func (l *LogicLoop) RunTick(ctx context.Context, delta float64) error {
	return l.runTick(ctx, delta)
}
