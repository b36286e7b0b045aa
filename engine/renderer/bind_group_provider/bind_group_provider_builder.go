package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithGroup sets the bind group index the provider is bound at when drawing.
//
// Parameters:
//   - group: the @group index declared by the shaders
//
// Returns:
//   - BindGroupProviderOption: a function that sets the group index
func WithGroup(group int) BindGroupProviderOption {
	if group < 0 {
		panic("bind_group_provider: negative group index")
	}
	return func(p *bindGroupProvider) {
		p.group = group
	}
}

// WithBindGroupLayout sets a bind group layout to reuse instead of creating one in InitBindGroup.
//
// Parameters:
//   - bgl: the bind group layout to use for this provider
//
// Returns:
//   - BindGroupProviderOption: a function that sets the bind group layout for this provider
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
	}
}

// WithBuffer sets a pre-created buffer for a binding index. InitBindGroup only creates buffers for
// bindings that have none.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}
