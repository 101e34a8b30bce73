package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgecore/internal/async"
	"forgecore/internal/ecs"
	"forgecore/internal/pipeline"
	"forgecore/internal/platform"
)

type fakeBackend struct {
	handles      map[string]platform.Handle
	clearErr     error
	drawErr      error
	clearCalls   int
	drawCalls    int
	presentCalls int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{handles: map[string]platform.Handle{"mesh": "mesh-h", "shader": "shader-h"}}
}

func (b *fakeBackend) CreateVertexBuffer(string, []float32) (platform.Handle, error)   { return "", nil }
func (b *fakeBackend) CreateShader(string, []byte) (platform.Handle, error)            { return "", nil }
func (b *fakeBackend) CreateStorageBuffer(string, int) (platform.Handle, error)        { return "", nil }
func (b *fakeBackend) CreateFramebuffer(string, []platform.Handle) (platform.Handle, error) {
	return "", nil
}
func (b *fakeBackend) CreateTexture(string, int, int) (platform.Handle, error) { return "", nil }
func (b *fakeBackend) Get(name string) (platform.Handle, bool) {
	h, ok := b.handles[name]
	return h, ok
}
func (b *fakeBackend) Destroy(platform.Handle) error { return nil }
func (b *fakeBackend) Clear(platform.Handle, float64, float64, float64, float64) error {
	b.clearCalls++
	return b.clearErr
}
func (b *fakeBackend) Draw(platform.Handle, platform.Handle, platform.DrawOptions) error {
	b.drawCalls++
	return b.drawErr
}
func (b *fakeBackend) UpdateStorageBuffer(platform.Handle, []float32) error { return nil }
func (b *fakeBackend) SetViewport(int, int) error                          { return nil }
func (b *fakeBackend) Present() error {
	b.presentCalls++
	return nil
}
func (b *fakeBackend) SetVSync(bool) error { return nil }

var _ platform.GraphicsBackend = (*fakeBackend)(nil)

func TestDrawProxiesDrawsOnlyVisibleProxiesWithResolvableHandles(t *testing.T) {
	backend := newFakeBackend()
	stage := pipeline.DrawProxies(backend, "target", nil)
	token := async.NewLifecycleToken()

	visible := pipeline.RenderProxy{MeshHandle: "mesh", ShaderHandle: "shader", Visible: true, Scale: vec(1, 1, 1)}
	hidden := pipeline.RenderProxy{MeshHandle: "mesh", ShaderHandle: "shader", Visible: false, Scale: vec(1, 1, 1)}
	unresolvable := pipeline.RenderProxy{MeshHandle: "missing", ShaderHandle: "shader", Visible: true, Scale: vec(1, 1, 1)}

	frame := pipeline.Frame{RenderProxies: map[ecs.EntityID]pipeline.RenderProxy{1: visible, 2: hidden, 3: unresolvable}}

	require.NoError(t, stage(context.Background(), token, 0.5, &frame, &frame))
	assert.Equal(t, 1, backend.clearCalls)
	assert.Equal(t, 1, backend.drawCalls)
}

func TestDrawProxiesReportsDrawErrorsWithoutFailingTheStage(t *testing.T) {
	backend := newFakeBackend()
	backend.drawErr = errors.New("gpu busy")

	var reported error
	stage := pipeline.DrawProxies(backend, "target", func(err error) { reported = err })
	token := async.NewLifecycleToken()

	frame := pipeline.Frame{RenderProxies: map[ecs.EntityID]pipeline.RenderProxy{
		1: {MeshHandle: "mesh", ShaderHandle: "shader", Visible: true, Scale: vec(1, 1, 1)},
	}}

	err := stage(context.Background(), token, 0, &frame, &frame)
	require.NoError(t, err, "a GPU call failure is logged and skipped, not propagated")
	assert.Error(t, reported)
}

func TestDrawProxiesSkipsWhenStopRequested(t *testing.T) {
	backend := newFakeBackend()
	stage := pipeline.DrawProxies(backend, "target", nil)
	token := async.NewLifecycleToken()
	token.RequestStop()

	frame := pipeline.Frame{RenderProxies: map[ecs.EntityID]pipeline.RenderProxy{
		1: {MeshHandle: "mesh", ShaderHandle: "shader", Visible: true},
	}}

	require.NoError(t, stage(context.Background(), token, 0, &frame, &frame))
	assert.Equal(t, 0, backend.clearCalls)
}

func TestPresentCallsBackendPresent(t *testing.T) {
	backend := newFakeBackend()
	stage := pipeline.Present(backend)
	token := async.NewLifecycleToken()
	frame := pipeline.Frame{}

	require.NoError(t, stage(context.Background(), token, 0, &frame, &frame))
	assert.Equal(t, 1, backend.presentCalls)
}
