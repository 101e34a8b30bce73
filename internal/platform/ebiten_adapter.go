package platform

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenWindow is a thin Window over ebiten's process-owned window; most
// of the contract is satisfied by package-level ebiten calls rather than
// per-instance state, since ebiten owns exactly one window per process.
type EbitenWindow struct {
	mu       sync.Mutex
	onResize func(w, h int)
	onFocus  func(focused bool)
}

// NewEbitenWindow returns a Window proving the platform/window contract
// is satisfiable over ebiten.
func NewEbitenWindow(title string, width, height int) *EbitenWindow {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return &EbitenWindow{}
}

func (w *EbitenWindow) Handle() Handle        { return Handle("ebiten-window") }
func (w *EbitenWindow) SurfaceHandle() Handle { return Handle("ebiten-surface") }

func (w *EbitenWindow) Show() error    { return nil } // ebiten shows the window once RunGame starts
func (w *EbitenWindow) Destroy() error { return nil } // torn down when RunGame returns

func (w *EbitenWindow) OnResize(fn func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = fn
}

func (w *EbitenWindow) OnFocus(fn func(focused bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onFocus = fn
}

// NotifyLayout is called from the owning ebiten.Game's Layout callback to
// forward a resize to whoever registered one via OnResize.
func (w *EbitenWindow) NotifyLayout(width, height int) {
	w.mu.Lock()
	fn := w.onResize
	w.mu.Unlock()
	if fn != nil {
		fn(width, height)
	}
}

func (w *EbitenWindow) ShowCursor() { ebiten.SetCursorMode(ebiten.CursorModeVisible) }
func (w *EbitenWindow) HideCursor() { ebiten.SetCursorMode(ebiten.CursorModeHidden) }

// ebitenResource is one named GPU resource: vertex data kept as ebiten
// vertices, a compiled Kage shader, or an image used as both texture and
// framebuffer attachment (ebiten draws to any *ebiten.Image).
type ebitenResource struct {
	vertices []ebiten.Vertex
	shader   *ebiten.Shader
	image    *ebiten.Image
}

// EbitenGraphicsBackend is a thin GraphicsBackend over ebiten's
// immediate-mode image and Kage shader API: vertex buffers are
// []ebiten.Vertex, shaders are compiled *ebiten.Shader, and both
// textures and framebuffers are *ebiten.Image (ebiten draws into any
// image, so there is no separate framebuffer type to model).
type EbitenGraphicsBackend struct {
	mu      sync.Mutex
	surface *ebiten.Image // the current frame's draw target, set by Present's caller each Draw callback
	byName  map[string]Handle
	byID    map[Handle]*ebitenResource
	vsync   bool
}

// NewEbitenGraphicsBackend returns a GraphicsBackend proving the
// create/draw/present contract is satisfiable over ebiten.
func NewEbitenGraphicsBackend() *EbitenGraphicsBackend {
	return &EbitenGraphicsBackend{
		byName: make(map[string]Handle),
		byID:   make(map[Handle]*ebitenResource),
		vsync:  true,
	}
}

// BindSurface sets the *ebiten.Image the render stages draw into for the
// current frame; the adapter's owner calls this once per Game.Draw,
// before running the configured render stages.
func (b *EbitenGraphicsBackend) BindSurface(surface *ebiten.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.surface = surface
}

func (b *EbitenGraphicsBackend) insert(name string, res *ebitenResource) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := Handle(name)
	b.byName[name] = h
	b.byID[h] = res
	return h
}

func (b *EbitenGraphicsBackend) CreateVertexBuffer(name string, data []float32) (Handle, error) {
	if len(data)%4 != 0 {
		return "", fmt.Errorf("platform: vertex buffer %q: data length %d is not a multiple of 4 (x,y,u,v)", name, len(data))
	}
	vertices := make([]ebiten.Vertex, 0, len(data)/4)
	for i := 0; i+3 < len(data); i += 4 {
		vertices = append(vertices, ebiten.Vertex{
			DstX: data[i], DstY: data[i+1],
			SrcX: data[i+2], SrcY: data[i+3],
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		})
	}
	return b.insert(name, &ebitenResource{vertices: vertices}), nil
}

func (b *EbitenGraphicsBackend) CreateShader(name string, source []byte) (Handle, error) {
	shader, err := ebiten.NewShader(source)
	if err != nil {
		return "", fmt.Errorf("platform: compile shader %q: %w", name, err)
	}
	return b.insert(name, &ebitenResource{shader: shader}), nil
}

func (b *EbitenGraphicsBackend) CreateStorageBuffer(name string, sizeBytes int) (Handle, error) {
	// ebiten has no shader-storage-buffer primitive; model it as an
	// opaque byte-backed vertex slice sized to hold sizeBytes/16 vertices,
	// enough to round-trip UpdateStorageBuffer without a real GPU buffer.
	return b.insert(name, &ebitenResource{vertices: make([]ebiten.Vertex, sizeBytes/16)}), nil
}

func (b *EbitenGraphicsBackend) CreateFramebuffer(name string, attachments []Handle) (Handle, error) {
	if len(attachments) == 0 {
		return "", fmt.Errorf("platform: framebuffer %q needs at least one attachment", name)
	}
	b.mu.Lock()
	res, ok := b.byID[attachments[0]]
	b.mu.Unlock()
	if !ok || res.image == nil {
		return "", fmt.Errorf("platform: framebuffer %q: attachment %q is not a texture", name, attachments[0])
	}
	return b.insert(name, &ebitenResource{image: res.image}), nil
}

func (b *EbitenGraphicsBackend) CreateTexture(name string, width, height int) (Handle, error) {
	img := ebiten.NewImage(width, height)
	return b.insert(name, &ebitenResource{image: img}), nil
}

func (b *EbitenGraphicsBackend) Get(name string) (Handle, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, ok := b.byName[name]
	return h, ok
}

func (b *EbitenGraphicsBackend) Destroy(h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	res, ok := b.byID[h]
	if !ok {
		return fmt.Errorf("platform: destroy unknown handle %q", h)
	}
	if res.image != nil {
		res.image.Deallocate()
	}
	delete(b.byID, h)
	return nil
}

func (b *EbitenGraphicsBackend) targetImage(target Handle) *ebiten.Image {
	b.mu.Lock()
	defer b.mu.Unlock()
	if target == "" {
		return b.surface
	}
	if res, ok := b.byID[target]; ok && res.image != nil {
		return res.image
	}
	return b.surface
}

func (b *EbitenGraphicsBackend) Clear(target Handle, r, g, bl, a float64) error {
	img := b.targetImage(target)
	if img == nil {
		return fmt.Errorf("platform: clear: no bound surface")
	}
	img.Fill(color.RGBA{
		R: uint8(r * 255), G: uint8(g * 255), B: uint8(bl * 255), A: uint8(a * 255),
	})
	return nil
}

func (b *EbitenGraphicsBackend) Draw(vertexBuffer, shader Handle, opts DrawOptions) error {
	b.mu.Lock()
	vb, vbOK := b.byID[vertexBuffer]
	sh, shOK := b.byID[shader]
	b.mu.Unlock()
	if !vbOK || !shOK || sh.shader == nil {
		return fmt.Errorf("platform: draw: unknown vertex buffer %q or shader %q", vertexBuffer, shader)
	}

	target := b.targetImage(opts.Target)
	if target == nil {
		return fmt.Errorf("platform: draw: no bound surface")
	}

	uniforms := make(map[string]interface{}, len(opts.Uniforms))
	for k, v := range opts.Uniforms {
		uniforms[k] = float32(v)
	}

	indices := make([]uint16, 0, len(vb.vertices))
	for i := range vb.vertices {
		indices = append(indices, uint16(i))
	}

	target.DrawTrianglesShader(vb.vertices, indices, sh.shader, &ebiten.DrawTrianglesShaderOptions{
		Uniforms: uniforms,
	})
	return nil
}

func (b *EbitenGraphicsBackend) UpdateStorageBuffer(h Handle, data []float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	res, ok := b.byID[h]
	if !ok {
		return fmt.Errorf("platform: update storage buffer: unknown handle %q", h)
	}
	vertices := make([]ebiten.Vertex, 0, len(data)/4)
	for i := 0; i+3 < len(data); i += 4 {
		vertices = append(vertices, ebiten.Vertex{DstX: data[i], DstY: data[i+1], SrcX: data[i+2], SrcY: data[i+3]})
	}
	res.vertices = vertices
	return nil
}

func (b *EbitenGraphicsBackend) SetViewport(width, height int) error {
	ebiten.SetWindowSize(width, height)
	return nil
}

// Present is a no-op: ebiten swaps buffers itself once Game.Draw
// returns, so there is nothing left for the render stage to flush.
func (b *EbitenGraphicsBackend) Present() error { return nil }

func (b *EbitenGraphicsBackend) SetVSync(enabled bool) error {
	b.mu.Lock()
	b.vsync = enabled
	b.mu.Unlock()
	ebiten.SetVsyncEnabled(enabled)
	return nil
}

// EbitenInputService accumulates key/mouse events recorded on the
// platform strand (ebiten's Update callback) and snapshots them once per
// logic tick into held/just-pressed/just-released sets.
type EbitenInputService struct {
	mu sync.Mutex

	held    map[string]struct{}
	pending map[string]bool // key -> pressed, recorded since last Tick

	justPressed  map[string]struct{}
	justReleased map[string]struct{}

	mouseX, mouseY   float64
	lastX, lastY     float64
	pendingMouseMove bool
}

// NewEbitenInputService returns an InputService proving the input
// contract is satisfiable; events are recorded by calling
// RecordKeyEvent/RecordMouseMove from ebiten's Update callback.
func NewEbitenInputService() *EbitenInputService {
	return &EbitenInputService{
		held:         make(map[string]struct{}),
		pending:      make(map[string]bool),
		justPressed:  make(map[string]struct{}),
		justReleased: make(map[string]struct{}),
	}
}

func (s *EbitenInputService) RecordKeyEvent(key string, pressed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[key] = pressed
}

func (s *EbitenInputService) RecordMouseMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mouseX, s.mouseY = x, y
	s.pendingMouseMove = true
}

func (s *EbitenInputService) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.justPressed = make(map[string]struct{})
	s.justReleased = make(map[string]struct{})

	for key, pressed := range s.pending {
		_, wasHeld := s.held[key]
		switch {
		case pressed && !wasHeld:
			s.held[key] = struct{}{}
			s.justPressed[key] = struct{}{}
		case !pressed && wasHeld:
			delete(s.held, key)
			s.justReleased[key] = struct{}{}
		}
	}
	s.pending = make(map[string]bool)

	if s.pendingMouseMove {
		s.lastX, s.lastY = s.mouseX, s.mouseY
		s.pendingMouseMove = false
	}
}

func (s *EbitenInputService) HeldKeys() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySet(s.held)
}

func (s *EbitenInputService) JustPressed() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySet(s.justPressed)
}

func (s *EbitenInputService) JustReleased() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySet(s.justReleased)
}

func (s *EbitenInputService) MousePosition() (x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mouseX, s.mouseY
}

func (s *EbitenInputService) MouseDelta() (dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mouseX - s.lastX, s.mouseY - s.lastY
}

func copySet(src map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(src))
	for k := range src {
		out[k] = struct{}{}
	}
	return out
}

var (
	_ Window          = (*EbitenWindow)(nil)
	_ GraphicsBackend = (*EbitenGraphicsBackend)(nil)
	_ InputService    = (*EbitenInputService)(nil)
)
