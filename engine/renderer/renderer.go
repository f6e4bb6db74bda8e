package renderer

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	bgp "github.com/Carmen-Shannon/oxy-orbit/engine/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-orbit/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how frames reach the display.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank.
	PresentModeVSync PresentMode = iota
	// PresentModeUncapped presents as soon as a frame is submitted.
	PresentModeUncapped
)

// Renderer owns the wgpu device for a window. It turns bind group providers into GPU bind
// groups, uploads their flushed writes, and clears and presents the surface once per frame.
// All methods must be called from the thread that created the Renderer.
type Renderer interface {
	// Resize reconfigures the surface. A zero dimension leaves the surface alone.
	//
	// Parameters:
	//   - width: new framebuffer width in pixels
	//   - height: new framebuffer height in pixels
	Resize(width, height int)

	// InitBindGroup creates the layout, one buffer per binding sized to its MinBindingSize,
	// and the bind group for provider. Calling it twice for the same provider is a no-op.
	//
	// Parameters:
	//   - provider: the provider describing the bindings
	//
	// Returns:
	//   - error: if any GPU object could not be created
	InitBindGroup(provider bgp.BindGroupProvider) error

	// BindGroup returns the GPU bind group created for provider, or nil.
	//
	// Parameters:
	//   - provider: a provider passed to InitBindGroup
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group, or nil if provider was never initialized
	BindGroup(provider bgp.BindGroupProvider) *wgpu.BindGroup

	// WriteBuffers uploads each write to the buffer behind its provider binding. Writes for
	// providers that were never initialized are skipped.
	//
	// Parameters:
	//   - writes: the writes drained from BindGroupProvider.Flush
	WriteBuffers(writes []bgp.BufferWrite)

	// RenderFrame records a clear pass into the next surface texture, submits it and presents.
	//
	// Returns:
	//   - error: if the surface texture could not be acquired or the commands not encoded
	RenderFrame() error

	// Release frees every GPU object owned by the renderer.
	Release()
}

// gpuBindGroup holds the GPU side of one provider.
type gpuBindGroup struct {
	layout  *wgpu.BindGroupLayout
	group   *wgpu.BindGroup
	buffers map[uint32]*wgpu.Buffer
}

type renderer struct {
	mu sync.Mutex

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	configured    bool

	forceFallbackAdapter bool
	presentMode          PresentMode
	clearColor           wgpu.Color

	groups map[bgp.BindGroupProvider]*gpuBindGroup
}

var _ Renderer = &renderer{}

// NewRenderer creates a wgpu device on win's surface and configures it to the window size.
// It panics if no adapter or device can be obtained.
//
// Parameters:
//   - win: the window whose surface is rendered to
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(win window.Window, options ...RendererOption) Renderer {
	runtime.LockOSThread()

	r := &renderer{
		presentMode: PresentModeVSync,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
		groups:      make(map[bgp.BindGroupProvider]*gpuBindGroup),
	}
	for _, opt := range options {
		opt(r)
	}

	descriptor := win.SurfaceDescriptor()
	if descriptor == nil {
		panic("renderer: window has no surface")
	}

	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(descriptor)

	adapter, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: r.forceFallbackAdapter,
		CompatibleSurface:    r.surface,
	})
	if err != nil {
		panic(err)
	}
	r.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Orbit Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	r.device = device
	r.queue = device.GetQueue()

	r.Resize(win.Width(), win.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	capabilities := r.surface.GetCapabilities(r.adapter)
	r.surfaceFormat = capabilities.Formats[0]

	presentMode := wgpu.PresentModeFifo
	if r.presentMode == PresentModeUncapped {
		presentMode = wgpu.PresentModeImmediate
	}

	r.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      r.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	r.configured = true
}

func (r *renderer) InitBindGroup(provider bgp.BindGroupProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[provider]; ok {
		return nil
	}

	descriptor := provider.LayoutDescriptor()
	if len(descriptor.Entries) == 0 {
		return fmt.Errorf("renderer: %s has no bindings", provider.Label())
	}

	layout, err := r.device.CreateBindGroupLayout(&descriptor)
	if err != nil {
		return fmt.Errorf("renderer: %s layout: %w", provider.Label(), err)
	}

	g := &gpuBindGroup{layout: layout, buffers: make(map[uint32]*wgpu.Buffer)}
	entries := make([]wgpu.BindGroupEntry, 0, len(descriptor.Entries))
	for _, entry := range descriptor.Entries {
		usage := wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
		if entry.Buffer.Type != wgpu.BufferBindingTypeUniform {
			usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
		}

		buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("%s Buffer %d", provider.Label(), entry.Binding),
			Size:  entry.Buffer.MinBindingSize,
			Usage: usage,
		})
		if err != nil {
			g.release()
			return fmt.Errorf("renderer: %s binding %d: %w", provider.Label(), entry.Binding, err)
		}
		g.buffers[entry.Binding] = buf

		entries = append(entries, wgpu.BindGroupEntry{
			Binding: entry.Binding,
			Buffer:  buf,
			Size:    wgpu.WholeSize,
		})
	}

	group, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		g.release()
		return fmt.Errorf("renderer: %s bind group: %w", provider.Label(), err)
	}
	g.group = group

	r.groups[provider] = g
	return nil
}

func (r *renderer) BindGroup(provider bgp.BindGroupProvider) *wgpu.BindGroup {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[provider]; ok {
		return g.group
	}
	return nil
}

func (r *renderer) WriteBuffers(writes []bgp.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range writes {
		g, ok := r.groups[w.Provider]
		if !ok {
			continue
		}
		buf, ok := g.buffers[w.Binding]
		if !ok {
			continue
		}
		r.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (r *renderer) RenderFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.configured {
		return nil
	}

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("renderer: acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("renderer: surface view: %w", err)
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("renderer: command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: r.clearColor,
			},
		},
	})
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("renderer: finish: %w", err)
	}
	defer commandBuffer.Release()

	r.queue.Submit(commandBuffer)
	r.surface.Present()
	return nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for provider, g := range r.groups {
		g.release()
		delete(r.groups, provider)
	}
	if r.device == nil {
		return
	}
	log.Printf("[Renderer] releasing device")
	r.surface.Release()
	r.device.Release()
	r.adapter.Release()
	r.instance.Release()
	r.device = nil
	r.configured = false
}

func (g *gpuBindGroup) release() {
	for binding, buf := range g.buffers {
		buf.Release()
		delete(g.buffers, binding)
	}
	if g.group != nil {
		g.group.Release()
		g.group = nil
	}
	if g.layout != nil {
		g.layout.Release()
		g.layout = nil
	}
}
