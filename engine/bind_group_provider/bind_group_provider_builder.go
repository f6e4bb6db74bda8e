package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithUniformBuffer declares a uniform buffer binding.
//
// Parameters:
//   - binding: the binding index from @binding(N)
//   - size: the uniform's byte size, used as MinBindingSize
//   - visibility: the shader stages that read the uniform
//
// Returns:
//   - BindGroupProviderOption: a function that adds the binding to this provider
func WithUniformBuffer(binding uint32, size uint64, visibility wgpu.ShaderStage) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: visibility,
		}
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		entry.Buffer.MinBindingSize = size
		p.entries[binding] = entry
	}
}
