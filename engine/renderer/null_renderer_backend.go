package renderer

import (
	"errors"
	"sync"
)

// nullRendererBackend satisfies RendererBackend without touching a GPU.
type nullRendererBackend struct {
	mu         sync.Mutex
	width      int
	height     int
	clearColor [3]float64
	inFrame    bool
	presented  int
	released   bool
}

var _ RendererBackend = &nullRendererBackend{}

func (b *nullRendererBackend) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
	return nil
}

func (b *nullRendererBackend) SetPresentMode(PresentMode) {}

func (b *nullRendererBackend) SetClearColor(rgb [3]float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearColor = rgb
}

func (b *nullRendererBackend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return errors.New("renderer released")
	}
	if b.inFrame {
		return errors.New("previous frame not yet presented")
	}
	b.inFrame = true
	return nil
}

func (b *nullRendererBackend) EndFrame() error {
	return nil
}

func (b *nullRendererBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inFrame {
		return
	}
	b.inFrame = false
	b.presented++
}

func (b *nullRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = true
}
