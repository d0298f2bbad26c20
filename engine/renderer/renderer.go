package renderer

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Surface is the window side of presentation.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	clearColor           [3]float64
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode

	frames uint64
}

// Renderer presents frames to a window surface.
//
// Each frame clears the swapchain to the configured background color. Frame
// presentation is independent of animation state: the sequencer advances the
// mixer on the engine tick, the renderer only draws.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// SetClearColor sets the background color used from the next frame on.
	//
	// Parameters:
	//   - rgb: red, green and blue components in [0, 1]
	SetClearColor(rgb [3]float64)

	// ClearColor returns the current background color.
	//
	// Returns:
	//   - [3]float64: red, green and blue components in [0, 1]
	ClearColor() [3]float64

	// SetPresentMode sets the surface present mode. A call to Resize is required
	// after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RenderFrame acquires the next surface texture, clears it and presents it.
	//
	// Returns:
	//   - error: an error if the frame could not be acquired or submitted
	RenderFrame() error

	// Frames returns the number of frames presented so far.
	//
	// Returns:
	//   - uint64: the presented frame count
	Frames() uint64

	// Release frees backend resources. The renderer must not be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given surface.
//
// Parameters:
//   - backendType: the type of backend to use
//   - surface: the window surface to present into (may be nil for BackendTypeNull)
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer
//   - error: an error if the backend could not be created
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		clearColor:  [3]float64{0.1, 0.1, 0.1},
	}

	// Options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	width, height := 0, 0
	switch backendType {
	case BackendTypeNull:
		r.backend = &nullRendererBackend{}
	case BackendTypeWGPU:
		fallthrough
	default:
		if surface == nil {
			return nil, fmt.Errorf("wgpu renderer requires a surface")
		}
		b, err := newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter)
		if err != nil {
			return nil, err
		}
		r.backend = b
		width, height = surface.Width(), surface.Height()
	}

	r.backend.SetClearColor(r.clearColor)
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	if err := r.backend.ConfigureSurface(width, height); err != nil {
		r.backend.Release()
		return nil, err
	}
	return r, nil
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetClearColor(rgb [3]float64) {
	r.mu.Lock()
	r.clearColor = rgb
	r.mu.Unlock()
	r.backend.SetClearColor(rgb)
}

func (r *renderer) ClearColor() [3]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clearColor
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) RenderFrame() error {
	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	if err := r.backend.EndFrame(); err != nil {
		return fmt.Errorf("failed to submit frame: %w", err)
	}
	r.backend.Present()

	r.mu.Lock()
	r.frames++
	r.mu.Unlock()
	return nil
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) Release() {
	r.backend.Release()
}
