package bind_group_provider

import (
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
)

// NewCameraProvider creates a provider with a single CameraUniform binding visible to the
// vertex and fragment stages.
//
// Parameters:
//   - label: debug label
//   - binding: the binding index of the CameraUniform
//
// Returns:
//   - BindGroupProvider: the camera's provider
func NewCameraProvider(label string, binding uint32) BindGroupProvider {
	return NewBindGroupProvider(label,
		WithUniformBuffer(binding, camera.GPUCameraUniformSize, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment),
	)
}

// StageCamera marshals the camera's current uniform into binding.
//
// Parameters:
//   - p: the provider to stage into
//   - binding: the binding index of the CameraUniform
//   - c: the camera to read
//
// Returns:
//   - error: if the binding is unknown
func StageCamera(p BindGroupProvider, binding uint32, c camera.Camera) error {
	u := c.Uniform()
	return p.Stage(binding, u.Marshal())
}
