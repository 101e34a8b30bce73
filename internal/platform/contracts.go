// Package platform defines the external interface contracts the engine
// core requires from its host environment — windowing, the graphics
// backend, input, and scripting — plus one thin adapter per contract
// proving it is satisfiable. The contracts are described by behavior,
// not by any one backend's API, so internal/pipeline's render stages and
// internal/scheduler's systems depend only on the interfaces in this
// file.
package platform

// Handle is an opaque, backend-assigned identifier for a GPU resource
// (vertex buffer, shader, storage buffer, framebuffer, texture). Handles
// are stable for the lifetime of the owning GraphicsBackend and are what
// a Frame's render proxies carry instead of a backend-specific pointer.
type Handle string

// Window produces an opaque window handle and drawing surface, routes
// platform events, and exposes the lifecycle callbacks the process/window
// strand reacts to.
type Window interface {
	Handle() Handle
	SurfaceHandle() Handle

	Show() error
	Destroy() error

	OnResize(fn func(width, height int))
	OnFocus(fn func(focused bool))

	ShowCursor()
	HideCursor()
}

// DrawOptions carries the per-draw-call inputs a GraphicsBackend.Draw
// needs beyond the vertex buffer and shader: shader uniforms by name and
// an optional target framebuffer (the zero Handle means the window's
// default surface).
type DrawOptions struct {
	Uniforms map[string]float64
	Target   Handle
}

// GraphicsBackend is every GPU operation the render stages issue against
// a drawing surface. All calls serialize on the render strand; Draw's
// vertex buffer × shader × uniforms × options × optional framebuffer
// shape matches what a Frame's RenderProxy carries after interpolation.
type GraphicsBackend interface {
	CreateVertexBuffer(name string, data []float32) (Handle, error)
	CreateShader(name string, source []byte) (Handle, error)
	CreateStorageBuffer(name string, sizeBytes int) (Handle, error)
	CreateFramebuffer(name string, attachments []Handle) (Handle, error)
	CreateTexture(name string, width, height int) (Handle, error)
	Get(name string) (Handle, bool)
	Destroy(h Handle) error

	Clear(target Handle, r, g, b, a float64) error
	Draw(vertexBuffer, shader Handle, opts DrawOptions) error
	UpdateStorageBuffer(h Handle, data []float32) error

	SetViewport(width, height int) error
	Present() error
	SetVSync(enabled bool) error
}

// InputService accumulates press/release/mouse-move events recorded on
// the platform strand and exposes, once per logic tick, the held/just
// pressed/just released key sets and the mouse position and delta.
type InputService interface {
	RecordKeyEvent(key string, pressed bool)
	RecordMouseMove(x, y float64)

	// Tick snapshots the current accumulated events into this tick's
	// held/just-pressed/just-released sets and clears the accumulator.
	// Called once per logic tick, before systems read input.
	Tick()

	HeldKeys() map[string]struct{}
	JustPressed() map[string]struct{}
	JustReleased() map[string]struct{}
	MousePosition() (x, y float64)
	MouseDelta() (dx, dy float64)
}

// EntityBinding is the read/write surface a scripting runtime exposes
// into the component rows of the one entity a script is invoked against;
// it never reaches another entity's state.
type EntityBinding interface {
	Get(component, field string) (float64, bool)
	Set(component, field string, value float64) bool
	Remove(component string) bool
}

// ScriptingRuntime loads named scripts and invokes them against a single
// entity's bindings. Opaque per-entity sandboxes are an implementation
// detail of the adapter, not part of this contract.
type ScriptingRuntime interface {
	Load(name string, source []byte) error
	Invoke(name string, entity EntityBinding) error
	Unload(name string) error
}
