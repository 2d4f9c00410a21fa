package coloring

import (
	"fmt"
	"sync"
)

// ColorDescStore persists the mapping between descriptors and local ids.
type ColorDescStore interface {
	// ResolveColorDesc returns the id of desc, registering it when autoAdd
	// is set. It returns 0 when desc is unknown and autoAdd is not set.
	ResolveColorDesc(desc string, autoAdd bool) (int64, error)
	// FindColorDesc returns the descriptor of id, or "" when unknown.
	FindColorDesc(colorID int64) (string, error)
}

// ColorMap resolves descriptors to ids and caches the kernel of every id
// it has seen. It is safe for concurrent use.
type ColorMap struct {
	store    ColorDescStore
	registry *Registry

	mu      sync.Mutex
	kernels map[int64]Kernel
}

// NewColorMap returns a map over store. A nil registry means DefaultRegistry.
func NewColorMap(store ColorDescStore, registry *Registry) *ColorMap {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &ColorMap{
		store:    store,
		registry: registry,
		kernels:  make(map[int64]Kernel),
	}
}

func (m *ColorMap) Registry() *Registry {
	return m.registry
}

// ResolveColorDesc returns the id of desc. The empty descriptor is the
// uncolored color 0.
func (m *ColorMap) ResolveColorDesc(desc string, autoAdd bool) (int64, error) {
	if desc == "" {
		return UncoloredColorID, nil
	}
	scheme, _, err := ParseColorDesc(desc)
	if err != nil {
		return 0, err
	}
	if !m.registry.HasScheme(scheme) {
		return 0, fmt.Errorf("%w: unknown scheme %q", ErrInvalidColor, scheme)
	}
	id, err := m.store.ResolveColorDesc(desc, autoAdd)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: %s", ErrColorNotFound, desc)
	}
	return id, nil
}

// FindColorDesc returns the descriptor of colorID.
func (m *ColorMap) FindColorDesc(colorID int64) (string, error) {
	if colorID == UncoloredColorID {
		return "", nil
	}
	m.mu.Lock()
	k, ok := m.kernels[colorID]
	m.mu.Unlock()
	if ok {
		return k.ColorDef().ColorDesc(), nil
	}
	desc, err := m.store.FindColorDesc(colorID)
	if err != nil {
		return "", err
	}
	if desc == "" {
		return "", fmt.Errorf("%w: color id %d", ErrColorNotFound, colorID)
	}
	return desc, nil
}

// GetKernel returns the cached kernel of colorID, building it on first use.
func (m *ColorMap) GetKernel(colorID int64) (Kernel, error) {
	if colorID == UncoloredColorID || colorID == GenesisColorID {
		return nil, fmt.Errorf("%w: color id %d has no kernel", ErrInvalidColor, colorID)
	}
	m.mu.Lock()
	k, ok := m.kernels[colorID]
	m.mu.Unlock()
	if ok {
		return k, nil
	}

	desc, err := m.FindColorDesc(colorID)
	if err != nil {
		return nil, err
	}
	k, err = m.registry.KernelFromDesc(colorID, desc)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.kernels[colorID]; ok {
		return cached, nil
	}
	m.kernels[colorID] = k
	return k, nil
}

// GetKernelByDesc resolves desc and returns its kernel.
func (m *ColorMap) GetKernelByDesc(desc string, autoAdd bool) (Kernel, error) {
	id, err := m.ResolveColorDesc(desc, autoAdd)
	if err != nil {
		return nil, err
	}
	return m.GetKernel(id)
}

// GetColorDef returns the definition of colorID. Sentinel ids map to
// their markers.
func (m *ColorMap) GetColorDef(colorID int64) (ColorDefinition, error) {
	switch colorID {
	case UncoloredColorID:
		return UncoloredMarker, nil
	case GenesisColorID:
		return GenesisOutputMarker, nil
	}
	k, err := m.GetKernel(colorID)
	if err != nil {
		return ColorDefinition{}, err
	}
	return k.ColorDef(), nil
}

// GetColorDefByDesc resolves desc and returns its definition.
func (m *ColorMap) GetColorDefByDesc(desc string, autoAdd bool) (ColorDefinition, error) {
	id, err := m.ResolveColorDesc(desc, autoAdd)
	if err != nil {
		return ColorDefinition{}, err
	}
	return m.GetColorDef(id)
}
