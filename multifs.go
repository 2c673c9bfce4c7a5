package fskit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNoLayer is returned when a named overlay layer does not exist.
var ErrNoLayer = errors.New("no such layer")

// MultiFS overlays an ordered sequence of filesystems behind a single
// namespace. Read operations search the layers in priority order and
// use the first one where the resource exists; enumeration merges all
// layers, de-duplicating names so the higher-priority layer wins.
// Write operations go exclusively to the designated write layer, and
// fail with ErrReadOnly when none is configured.
type MultiFS struct {
	mu        sync.RWMutex
	layers    map[string]*overlayLayer
	ordered   []*overlayLayer // priority descending, then newest first
	writeFS   FS
	sortIndex int
	closed    bool
}

type overlayLayer struct {
	name     string
	fsys     FS
	priority int
	order    int
	owned    bool
}

// LayerOption configures a layer added to a MultiFS.
type LayerOption func(*overlayLayer)

// WithPriority sets the layer's priority. Layers are searched in
// descending priority order; among equal priorities the most recently
// added layer is searched first.
func WithPriority(priority int) LayerOption {
	return func(l *overlayLayer) { l.priority = priority }
}

// WithLayerExternallyOwned prevents the layer from being closed when
// the MultiFS is closed.
func WithLayerExternallyOwned() LayerOption {
	return func(l *overlayLayer) { l.owned = false }
}

// NewMultiFS creates an empty overlay.
func NewMultiFS() *MultiFS {
	return &MultiFS{layers: make(map[string]*overlayLayer)}
}

// AddLayer adds a filesystem to the overlay under a unique name.
func (m *MultiFS) AddLayer(name string, fsys FS, opts ...LayerOption) error {
	if fsys == nil {
		return ErrNilFS
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if _, exists := m.layers[name]; exists {
		return fmt.Errorf("layer %q: %w", name, ErrExist)
	}
	layer := &overlayLayer{name: name, fsys: fsys, order: m.sortIndex, owned: true}
	m.sortIndex++
	for _, opt := range opts {
		opt(layer)
	}
	m.layers[name] = layer
	m.resort()
	return nil
}

// SetWriteLayer designates a previously added layer as the target for
// all write operations.
func (m *MultiFS) SetWriteLayer(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	layer, ok := m.layers[name]
	if !ok {
		return fmt.Errorf("layer %q: %w", name, ErrNoLayer)
	}
	m.writeFS = layer.fsys
	return nil
}

// Layer returns the filesystem added under a name.
func (m *MultiFS) Layer(name string) (FS, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	layer, ok := m.layers[name]
	if !ok {
		return nil, fmt.Errorf("layer %q: %w", name, ErrNoLayer)
	}
	return layer.fsys, nil
}

// resort rebuilds the search order. Must be called with the lock held.
func (m *MultiFS) resort() {
	ordered := make([]*overlayLayer, 0, len(m.layers))
	for _, layer := range m.layers {
		ordered = append(ordered, layer)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].priority != ordered[j].priority {
			return ordered[i].priority > ordered[j].priority
		}
		return ordered[i].order > ordered[j].order
	})
	m.ordered = ordered
}

// snapshot returns the current search order.
func (m *MultiFS) snapshot() ([]*overlayLayer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	return m.ordered, nil
}

// delegate returns the first layer where the path exists.
func (m *MultiFS) delegate(ctx context.Context, path string) (FS, error) {
	layers, err := m.snapshot()
	if err != nil {
		return nil, err
	}
	for _, layer := range layers {
		exists, err := Exists(ctx, layer.fsys, path)
		if err != nil {
			return nil, err
		}
		if exists {
			return layer.fsys, nil
		}
	}
	return nil, errPath("multifs", path, ErrNotExist)
}

// writable returns the designated write layer.
func (m *MultiFS) writable(op, path string) (FS, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	if m.writeFS == nil {
		return nil, errPath(op, path, ErrReadOnly)
	}
	return m.writeFS, nil
}

func (m *MultiFS) GetInfo(ctx context.Context, path string, namespaces ...string) (*Info, error) {
	p, err := normalizeAbs(path)
	if err != nil {
		return nil, err
	}
	fsys, err := m.delegate(ctx, p)
	if err != nil {
		return nil, err
	}
	return fsys.GetInfo(ctx, p, namespaces...)
}

func (m *MultiFS) ListDir(ctx context.Context, path string) ([]string, error) {
	p, err := normalizeAbs(path)
	if err != nil {
		return nil, err
	}
	layers, err := m.snapshot()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	found := false
	for _, layer := range layers {
		entries, err := layer.fsys.ListDir(ctx, p)
		if err != nil {
			if IsNotExist(err) {
				continue
			}
			return nil, err
		}
		found = true
		for _, name := range entries {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	if !found {
		return nil, errPath("listdir", p, ErrNotExist)
	}
	return names, nil
}

// ScanDir merges enumeration across layers, keeping the entry from the
// higher-priority layer for duplicated names.
func (m *MultiFS) ScanDir(ctx context.Context, path string, namespaces ...string) ([]*Info, error) {
	p, err := normalizeAbs(path)
	if err != nil {
		return nil, err
	}
	layers, err := m.snapshot()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var infos []*Info
	found := false
	for _, layer := range layers {
		entries, err := ScanDir(ctx, layer.fsys, p, namespaces...)
		if err != nil {
			if IsNotExist(err) {
				continue
			}
			return nil, err
		}
		found = true
		for _, info := range entries {
			if !seen[info.Name()] {
				seen[info.Name()] = true
				infos = append(infos, info)
			}
		}
	}
	if !found {
		return nil, errPath("scandir", p, ErrNotExist)
	}
	return infos, nil
}

func (m *MultiFS) MakeDir(ctx context.Context, path string) error {
	fsys, err := m.writable("makedir", path)
	if err != nil {
		return err
	}
	return fsys.MakeDir(ctx, path)
}

func (m *MultiFS) OpenBin(ctx context.Context, path string, flag int) (File, error) {
	if err := ValidateFlag(flag); err != nil {
		return nil, errPath("openbin", path, err)
	}
	if IsWritableFlag(flag) {
		fsys, err := m.writable("openbin", path)
		if err != nil {
			return nil, err
		}
		return fsys.OpenBin(ctx, path, flag)
	}
	p, err := normalizeAbs(path)
	if err != nil {
		return nil, err
	}
	fsys, err := m.delegate(ctx, p)
	if err != nil {
		return nil, err
	}
	return fsys.OpenBin(ctx, p, flag)
}

func (m *MultiFS) Remove(ctx context.Context, path string) error {
	p, err := normalizeAbs(path)
	if err != nil {
		return err
	}
	fsys, err := m.delegate(ctx, p)
	if err != nil {
		return err
	}
	return fsys.Remove(ctx, p)
}

func (m *MultiFS) RemoveDir(ctx context.Context, path string) error {
	p, err := normalizeAbs(path)
	if err != nil {
		return err
	}
	if p == "/" {
		return errPath("removedir", p, ErrRemoveRoot)
	}
	fsys, err := m.delegate(ctx, p)
	if err != nil {
		return err
	}
	return fsys.RemoveDir(ctx, p)
}

func (m *MultiFS) SetInfo(ctx context.Context, path string, raw RawInfo) error {
	fsys, err := m.writable("setinfo", path)
	if err != nil {
		return err
	}
	return fsys.SetInfo(ctx, path, raw)
}

// Close closes every owned layer and empties the overlay. Close is
// idempotent.
func (m *MultiFS) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	var errs []error
	for _, layer := range m.ordered {
		if layer.owned {
			if err := layer.fsys.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	m.layers = map[string]*overlayLayer{}
	m.ordered = nil
	m.writeFS = nil
	return errors.Join(errs...)
}

var (
	_ FS         = (*MultiFS)(nil)
	_ CanScanDir = (*MultiFS)(nil)
)
