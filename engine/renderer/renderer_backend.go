package renderer

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based presentation backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeNull selects a backend that records frames without a GPU.
	BackendTypeNull
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// RendererBackend is the interface every presentation backend implements.
type RendererBackend interface {
	ConfigureSurface(width, height int) error
	SetPresentMode(mode PresentMode)
	SetClearColor(rgb [3]float64)
	BeginFrame() error
	EndFrame() error
	Present()
	Release()
}
