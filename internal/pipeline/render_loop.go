package pipeline

import (
	"context"
	"math"

	"forgecore/internal/async"
	"forgecore/internal/mathutil"
)

// RenderStageFunc is one step of the configured render pipeline
// R0..Rm-1. Stages receive both recently-published frames and the blend
// factor α rather than a single pre-built frame, so a stage can
// interpolate only the fields it actually draws from (e.g. a shadow-map
// stage would not need render_proxies); Interpolate is available
// to any stage that wants the full composite.
type RenderStageFunc func(ctx context.Context, token *async.LifecycleToken, alpha float64, prev, curr *Frame) error

// RenderLoop pulls the two most recent published frames each iteration,
// computes the blend factor against a sampled wall clock, runs the
// configured render stages, then the sync/present stage.
type RenderLoop struct {
	stages []RenderStageFunc
	sync   RenderStageFunc
	buffer *FrameBuffer
	token  *async.LifecycleToken

	wallClock func() float64
	epsilon   float64
}

// NewRenderLoop returns a loop pulling from buffer and running stages
// then sync each iteration. wallClock returns the current simulation
// timeline's wall-clock sample in the same units as Frame.TSim (seconds
// since the logic loop's t_sim origin).
func NewRenderLoop(stages []RenderStageFunc, sync RenderStageFunc, buffer *FrameBuffer, token *async.LifecycleToken, wallClock func() float64) *RenderLoop {
	return &RenderLoop{
		stages:    stages,
		sync:      sync,
		buffer:    buffer,
		token:     token,
		wallClock: wallClock,
		epsilon:   1e-6,
	}
}

// Run iterates until the token's stop flag is observed or ctx is
// cancelled, draining the current stage before returning.
func (l *RenderLoop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if l.token.StopRequested() {
			return nil
		}
		if err := l.RunOnce(ctx); err != nil {
			return err
		}
	}
}

// RunOnce executes a single render iteration: pull, compute α, run
// stages, run sync. A no-op if nothing has been published yet. Exposed
// for tests and for callers integrating with an external frame-pump
// (e.g. an ebiten Draw callback).
func (l *RenderLoop) RunOnce(ctx context.Context) error {
	prev, curr, tPrev, tCurr, ok := l.buffer.Pull()
	if !ok {
		return nil
	}

	tWall := l.wallClock()
	denom := math.Max(tCurr-tPrev, l.epsilon)
	alpha := mathutil.Clamp01((tWall - tPrev) / denom)

	for _, stage := range l.stages {
		if l.token.StopRequested() {
			return nil
		}
		if err := stage(ctx, l.token, alpha, &prev, &curr); err != nil {
			return err
		}
	}

	if l.sync != nil {
		return l.sync(ctx, l.token, alpha, &prev, &curr)
	}
	return nil
}
