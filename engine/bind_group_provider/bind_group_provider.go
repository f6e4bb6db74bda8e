package bind_group_provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	mu sync.Mutex

	// label is a debug label added for convenience.
	label string

	// entries holds the layout entries keyed by binding index.
	entries map[uint32]wgpu.BindGroupLayoutEntry

	// staged holds the most recent bytes written per binding that have not been flushed yet.
	staged map[uint32][]byte
}

// BindGroupProvider describes the GPU binding requirements of a component (the camera
// uniform, for example) and stages the bytes that must be uploaded each frame.
// It never touches the GPU itself; a renderer builds the layout from LayoutDescriptor()
// and drains Flush() into queue writes.
//
// Usage pattern:
//  1. Create a provider with WithUniformBuffer for every binding
//  2. Each frame, Stage(binding, data) the freshly marshaled uniform
//  3. The renderer calls Flush() and writes each BufferWrite to its buffer
type BindGroupProvider interface {
	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// LayoutEntries returns the layout entries ordered by binding index.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutEntry: the layout entries
	LayoutEntries() []wgpu.BindGroupLayoutEntry

	// LayoutDescriptor returns a descriptor ready for Device.CreateBindGroupLayout.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	LayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	// Stage records data for a binding, replacing anything staged earlier.
	//
	// Parameters:
	//   - binding: the binding index
	//   - data: the bytes to upload; must be at least the binding's MinBindingSize
	//
	// Returns:
	//   - error: if the binding is unknown or data is too short
	Stage(binding uint32, data []byte) error

	// Flush returns every staged write ordered by binding and clears the staging area.
	//
	// Returns:
	//   - []BufferWrite: the pending writes
	Flush() []BufferWrite
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		entries: make(map[uint32]wgpu.BindGroupLayoutEntry),
		staged:  make(map[uint32][]byte),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) LayoutEntries() []wgpu.BindGroupLayoutEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]wgpu.BindGroupLayoutEntry, 0, len(p.entries))
	for _, binding := range p.sortedBindings() {
		out = append(out, p.entries[binding])
	}
	return out
}

func (p *bindGroupProvider) LayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label:   p.label + " Layout",
		Entries: p.LayoutEntries(),
	}
}

func (p *bindGroupProvider) Stage(binding uint32, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.entries[binding]
	if !ok {
		return fmt.Errorf("%s: no binding %d", p.label, binding)
	}
	if uint64(len(data)) < entry.Buffer.MinBindingSize {
		return fmt.Errorf("%s: binding %d needs %d bytes, got %d", p.label, binding, entry.Buffer.MinBindingSize, len(data))
	}
	p.staged[binding] = append(p.staged[binding][:0], data...)
	return nil
}

func (p *bindGroupProvider) Flush() []BufferWrite {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.staged) == 0 {
		return nil
	}
	writes := make([]BufferWrite, 0, len(p.staged))
	for _, binding := range p.sortedBindings() {
		data, ok := p.staged[binding]
		if !ok {
			continue
		}
		writes = append(writes, BufferWrite{Provider: p, Binding: binding, Data: data})
		delete(p.staged, binding)
	}
	return writes
}

// sortedBindings returns the known binding indices in ascending order. Caller must hold the mutex.
func (p *bindGroupProvider) sortedBindings() []uint32 {
	bindings := make([]uint32, 0, len(p.entries))
	for b := range p.entries {
		bindings = append(bindings, b)
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i] < bindings[j] })
	return bindings
}
