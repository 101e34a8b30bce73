package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgecore/internal/async"
	"forgecore/internal/ecs"
	"forgecore/internal/ecs/components"
	"forgecore/internal/mathutil"
	"forgecore/internal/pipeline"
)

func TestFrameBufferDegeneratePullAfterOnePublish(t *testing.T) {
	fb := pipeline.NewFrameBuffer()
	f := pipeline.NewFrame()
	f.TSim = 1

	fb.Publish(f, 1)
	prev, curr, tPrev, tCurr, ok := fb.Pull()
	require.True(t, ok)
	assert.Equal(t, prev, curr)
	assert.Equal(t, tPrev, tCurr)
}

func TestFrameBufferOrdersPrevAndCurr(t *testing.T) {
	fb := pipeline.NewFrameBuffer()
	f1 := pipeline.NewFrame()
	f1.TSim = 1
	f2 := pipeline.NewFrame()
	f2.TSim = 2

	fb.Publish(f1, 1)
	fb.Publish(f2, 2)

	prev, curr, tPrev, tCurr, ok := fb.Pull()
	require.True(t, ok)
	assert.Equal(t, 1.0, prev.TSim)
	assert.Equal(t, 2.0, curr.TSim)
	assert.Less(t, tPrev, tCurr)
}

func TestFrameBufferPullBeforeAnyPublish(t *testing.T) {
	fb := pipeline.NewFrameBuffer()
	_, _, _, _, ok := fb.Pull()
	assert.False(t, ok)
}

func TestInterpolationMidpointTranslation(t *testing.T) {
	const id = ecs.EntityID(1)

	prev := pipeline.NewFrame()
	prev.RenderProxies[id] = pipeline.RenderProxy{Position: vec(0, 0, 0), Scale: vec(1, 1, 1)}

	curr := pipeline.NewFrame()
	curr.RenderProxies[id] = pipeline.RenderProxy{Position: vec(2, 0, 0), Scale: vec(1, 1, 1)}

	interp := pipeline.Interpolate(prev, curr, 0.5)
	proxy, ok := interp.RenderProxies[id]
	require.True(t, ok)

	m := proxy.UModel()
	assert.InDelta(t, 1.0, m[3], 1e-9)
	assert.InDelta(t, 0.0, m[7], 1e-9)
	assert.InDelta(t, 0.0, m[11], 1e-9)
}

func TestInterpolationKeepsCurrOnlyProxyUnblended(t *testing.T) {
	const onlyInCurr = ecs.EntityID(7)

	prev := pipeline.NewFrame()
	curr := pipeline.NewFrame()
	curr.RenderProxies[onlyInCurr] = pipeline.RenderProxy{Position: vec(5, 0, 0), Scale: vec(1, 1, 1)}

	interp := pipeline.Interpolate(prev, curr, 0.5)
	proxy, ok := interp.RenderProxies[onlyInCurr]
	require.True(t, ok)
	assert.Equal(t, vec(5, 0, 0), proxy.Position)
}

func TestInterpolationLightsPairOverShorterPrefix(t *testing.T) {
	prev := pipeline.NewFrame()
	prev.Lights = []pipeline.GPULight{{Intensity: 1}, {Intensity: 2}}
	curr := pipeline.NewFrame()
	curr.Lights = []pipeline.GPULight{{Intensity: 3}}

	interp := pipeline.Interpolate(prev, curr, 0.5)
	require.Len(t, interp.Lights, 1)
	assert.InDelta(t, 2.0, interp.Lights[0].Intensity, 1e-9)
}

func TestInterpolationShadowCastersCountHoldsAtPrev(t *testing.T) {
	prev := pipeline.NewFrame()
	prev.ShadowCastersCount = 3
	curr := pipeline.NewFrame()
	curr.ShadowCastersCount = 9

	interp := pipeline.Interpolate(prev, curr, 0.5)
	assert.Equal(t, 3, interp.ShadowCastersCount)
}

func TestEndToEndEmptyWorldOneTick(t *testing.T) {
	registry := ecs.NewRegistry()
	buffer := pipeline.NewFrameBuffer()
	token := async.NewLifecycleToken()
	state := &pipeline.LogicState{Registry: registry}

	loop := pipeline.NewLogicLoop([]pipeline.LogicStageFunc{pipeline.GatherRenderData()}, state, buffer, token, time.Millisecond)
	require.NoError(t, loop.RunTick(context.Background(), 0.016))

	_, curr, _, _, ok := buffer.Pull()
	require.True(t, ok)
	assert.Empty(t, curr.RenderProxies)
	assert.Equal(t, 0, curr.ShadowCastersCount)
}

func TestEndToEndSingleStaticEntity(t *testing.T) {
	registry := ecs.NewRegistry()
	eid, err := registry.CreateEntity("cube")
	require.NoError(t, err)
	ecs.AddComponent(registry, eid, components.NewTransform())
	ecs.AddComponent(registry, eid, components.NewVisual("cube", "basic"))

	buffer := pipeline.NewFrameBuffer()
	token := async.NewLifecycleToken()
	state := &pipeline.LogicState{Registry: registry}

	loop := pipeline.NewLogicLoop([]pipeline.LogicStageFunc{pipeline.GatherRenderData()}, state, buffer, token, time.Millisecond)
	require.NoError(t, loop.RunTick(context.Background(), 0.016))

	_, curr, _, _, ok := buffer.Pull()
	require.True(t, ok)
	require.Len(t, curr.RenderProxies, 1)

	proxy, ok := curr.RenderProxies[eid]
	require.True(t, ok)
	m := proxy.UModel()
	for i, want := range [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	} {
		assert.InDelta(t, want, m[i], 1e-9)
	}
}

func TestLogicLoopStopsWithinOneAdditionalTick(t *testing.T) {
	registry := ecs.NewRegistry()
	buffer := pipeline.NewFrameBuffer()
	token := async.NewLifecycleToken()
	state := &pipeline.LogicState{Registry: registry}

	loop := pipeline.NewLogicLoop([]pipeline.LogicStageFunc{pipeline.GatherRenderData()}, state, buffer, token, time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	time.Sleep(5 * time.Millisecond)
	token.RequestStop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("logic loop did not stop after RequestStop")
	}
	assert.True(t, token.Finished())
}

func TestLogicLoopTickCountMatchesElapsedOverDelta(t *testing.T) {
	registry := ecs.NewRegistry()
	buffer := pipeline.NewFrameBuffer()
	token := async.NewLifecycleToken()
	state := &pipeline.LogicState{Registry: registry}

	const delta = 5 * time.Millisecond
	const window = 60 * time.Millisecond
	loop := pipeline.NewLogicLoop([]pipeline.LogicStageFunc{pipeline.GatherRenderData()}, state, buffer, token, delta)

	ctx, cancel := context.WithTimeout(context.Background(), window)
	defer cancel()
	_ = loop.Run(ctx)

	_, curr, _, _, ok := buffer.Pull()
	require.True(t, ok)

	expectedTicks := float64(window) / float64(delta)
	assert.InDelta(t, expectedTicks*delta.Seconds(), curr.TSim, 3*delta.Seconds())
}

func TestRenderLoopRunOnceComputesClampedAlpha(t *testing.T) {
	buffer := pipeline.NewFrameBuffer()
	f1 := pipeline.NewFrame()
	f1.TSim = 0
	f2 := pipeline.NewFrame()
	f2.TSim = 1
	buffer.Publish(f1, 0)
	buffer.Publish(f2, 1)

	token := async.NewLifecycleToken()
	var gotAlpha float64
	stage := func(ctx context.Context, tok *async.LifecycleToken, alpha float64, prev, curr *pipeline.Frame) error {
		gotAlpha = alpha
		return nil
	}
	synced := false
	sync := func(ctx context.Context, tok *async.LifecycleToken, alpha float64, prev, curr *pipeline.Frame) error {
		synced = true
		return nil
	}

	loop := pipeline.NewRenderLoop([]pipeline.RenderStageFunc{stage}, sync, buffer, token, func() float64 { return 1.5 })
	require.NoError(t, loop.RunOnce(context.Background()))

	assert.Equal(t, 1.0, gotAlpha, "α is clamped to 1 once wall time passes t_curr")
	assert.True(t, synced)
}

func TestRenderLoopRunOnceNoopBeforeAnyPublish(t *testing.T) {
	buffer := pipeline.NewFrameBuffer()
	token := async.NewLifecycleToken()
	called := false
	stage := func(ctx context.Context, tok *async.LifecycleToken, alpha float64, prev, curr *pipeline.Frame) error {
		called = true
		return nil
	}

	loop := pipeline.NewRenderLoop([]pipeline.RenderStageFunc{stage}, nil, buffer, token, func() float64 { return 0 })
	require.NoError(t, loop.RunOnce(context.Background()))
	assert.False(t, called)
}

func vec(x, y, z float64) mathutil.Vec3 {
	return mathutil.Vec3{X: x, Y: y, Z: z}
}
