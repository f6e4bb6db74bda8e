package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererOption is a functional option applied to a renderer during NewRenderer.
type RendererOption func(*renderer)

// WithPresentMode selects how frames reach the display. Defaults to PresentModeVSync.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - RendererOption: functional option to set the present mode
func WithPresentMode(mode PresentMode) RendererOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithClearColor sets the color the surface is cleared to each frame.
//
// Parameters:
//   - c: clear color, components in [0, 1]
//
// Returns:
//   - RendererOption: functional option to set the clear color
func WithClearColor(c wgpu.Color) RendererOption {
	return func(r *renderer) {
		r.clearColor = c
	}
}

// WithForceFallbackAdapter requests the software adapter.
//
// Returns:
//   - RendererOption: functional option to force the fallback adapter
func WithForceFallbackAdapter() RendererOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = true
	}
}
