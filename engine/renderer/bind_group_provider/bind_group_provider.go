// Package bind_group_provider holds the GPU resources behind one bind group of a plane: its buffers,
// the slide texture and sampler, and the mesh buffers drawn with it.
package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the implementation of the BindGroupProvider interface.
type bindGroupProvider struct {
	label string
	group int

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	buffers         map[int]*wgpu.Buffer
	textures        map[int]*wgpu.Texture
	textureViews    map[int]*wgpu.TextureView
	samplers        map[int]*wgpu.Sampler

	// mesh buffers, only set on the provider passed as the mesh to DrawCall
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int

	released bool
}

// BindGroupProvider owns the GPU objects bound at one group index of a pipeline.
// The renderer creates the objects and stores them on the provider. The provider releases them.
type BindGroupProvider interface {
	// Release frees every GPU object held by the provider. Calling it again is a no-op.
	Release()

	// Released reports whether Release has been called.
	Released() bool

	// Label returns the debug label used when naming GPU objects.
	Label() string

	// Group returns the bind group index the provider is set at when drawing.
	Group() int

	BindGroup() *wgpu.BindGroup
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer at a binding index, or nil.
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view at a binding index, or nil.
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler at a binding index, or nil.
	Sampler(binding int) *wgpu.Sampler

	VertexBuffer() *wgpu.Buffer
	IndexBuffer() *wgpu.Buffer
	IndexCount() int

	SetBindGroup(bg *wgpu.BindGroup)
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTexture stores a texture and its view at a binding index. The texture is kept so Release can free it.
	//
	// Parameters:
	//   - binding: the binding index of the texture
	//   - tex: the GPU texture
	//   - tv: the view bound in the bind group
	SetTexture(binding int, tex *wgpu.Texture, tv *wgpu.TextureView)

	SetSampler(binding int, s *wgpu.Sampler)
	SetVertexBuffer(buf *wgpu.Buffer)
	SetIndexBuffer(buf *wgpu.Buffer)
	SetIndexCount(count int)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider. Group defaults to 0.
//
// Parameters:
//   - label: the debug label for GPU objects created for this provider
//   - options: functional options applied in order
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textures:     make(map[int]*wgpu.Texture),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		if opt == nil {
			panic("bind_group_provider: nil option for " + label)
		}
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Group() int {
	return p.group
}

func (p *bindGroupProvider) Released() bool {
	return p.released
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTexture(binding int, tex *wgpu.Texture, tv *wgpu.TextureView) {
	p.textures[binding] = tex
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) Release() {
	if p.released {
		return
	}
	p.released = true

	// the bind group references the views, samplers and buffers, so it goes first
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, tex := range p.textures {
		if tex != nil {
			tex.Release()
		}
		delete(p.textures, i)
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}
