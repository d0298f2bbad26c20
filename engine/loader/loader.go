package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-stage/engine/model"
	"github.com/rs/zerolog"
)

var (
	// ErrUnsupportedFormat is returned when no backend handles a file's extension.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrImportPanic wraps a panic raised while importing an asset.
	ErrImportPanic = errors.New("asset import panicked")

	// ErrLoaderClosed is reported by LoadAsync after Close.
	ErrLoaderClosed = errors.New("loader closed")
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	backend loaderBackend

	logger zerolog.Logger

	workers  int
	poolMu   sync.Mutex
	pool     worker.DynamicWorkerPool
	closed   bool
	nextTask atomic.Int64
}

// Loader loads and caches animated scenes. The file format is hidden behind a
// backend chosen at construction time.
type Loader interface {
	// Load imports a scene file and caches the result by path.
	// A cached model is returned without touching the file again.
	//
	// Parameters:
	//   - path: the file path to the .gltf or .glb file
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: ErrUnsupportedFormat for unknown extensions, or the import error
	Load(path string) (model.Model, error)

	// LoadAsync runs Load on the loader's worker pool and reports the result to done.
	// done runs on a pool goroutine; callers that own single-threaded state
	// should hand the result back to their own execution context. A panic inside
	// the import is reported as ErrImportPanic. After Close, done receives
	// ErrLoaderClosed on the calling goroutine.
	//
	// Parameters:
	//   - path: the file path to load
	//   - done: receives the model or the load error exactly once
	LoadAsync(path string, done func(model.Model, error))

	// LoadReader imports a scene from a stream and caches it by name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	Models() map[string]model.Model

	// Close stops the worker pool. Cached models stay available.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]model.Model),
		logger:     zerolog.Nop(),
		workers:    2,
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	imported, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m := l.cache(path, imported)
	l.logger.Info().
		Str("path", path).
		Int("nodes", len(imported.Nodes)).
		Int("clips", len(imported.Animations)).
		Dur("elapsed", time.Since(start)).
		Msg("asset loaded")
	return m, nil
}

func (l *loader) LoadAsync(path string, done func(model.Model, error)) {
	l.poolMu.Lock()
	if l.closed {
		l.poolMu.Unlock()
		done(nil, fmt.Errorf("%w: %s", ErrLoaderClosed, path))
		return
	}
	if l.pool == nil {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 16, 5*time.Second)
	}
	pool := l.pool
	l.poolMu.Unlock()

	pool.SubmitTask(worker.Task{
		ID: int(l.nextTask.Add(1)),
		Do: l.loadTask(path, done),
	})
}

// loadTask wraps Load for the pool. done is called exactly once, also when the
// import panics.
func (l *loader) loadTask(path string, done func(model.Model, error)) func() (any, error) {
	return func() (result any, err error) {
		var m model.Model
		defer func() {
			if r := recover(); r != nil {
				m = nil
				err = fmt.Errorf("%w: %s: %v", ErrImportPanic, path, r)
			}
			if err != nil {
				l.logger.Error().Err(err).Str("path", path).Msg("asset load failed")
			}
			done(m, err)
			result = m
		}()

		m, err = l.Load(path)
		return m, err
	}
}

func (l *loader) Close() {
	l.poolMu.Lock()
	defer l.poolMu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	if l.pool != nil {
		l.pool.Stop()
	}
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	imported, err := l.backend.LoadReader(r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.cache(name, imported), nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// cache converts imported data into a Model and stores it under key.
// When two loads of the same key race, the first stored model wins.
func (l *loader) cache(key string, imported *model.ImportedModel) model.Model {
	m := model.NewModel(
		model.WithName(imported.Name),
		model.WithNodes(imported.Nodes, imported.RootNodeIndices),
		model.WithAnimations(imported.Animations),
	)

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.modelCache[key]; ok {
		return existing
	}
	l.modelCache[key] = m
	return m
}

// resolveBackend selects the backend for a file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		if l.backend == nil {
			return nil, fmt.Errorf("%w: no backend configured for %s", ErrUnsupportedFormat, ext)
		}
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
