package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-hover/common"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Target is the window a Renderer presents into. engine/window.Window satisfies it.
type Target interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *wgpu.Color
}

// Renderer draws textured planes into a window surface.
//
// It caches render pipelines by key, creates per-plane GPU resources on BindGroupProviders and
// records one render pass per frame: BeginFrame, any number of DrawCall, EndFrame, then Present.
// All methods are called from the engine's frame loop.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU render pipeline for each Pipeline and caches it under its key.
	// Pipelines whose key is already cached are skipped.
	//
	// Parameters:
	//   - pipelines: the pipelines to register
	//
	// Returns:
	//   - error: the first pipeline creation error, if any
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new framebuffer size. A zero size leaves the surface
	// unconfigured until the next non-zero resize.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the present mode used the next time the surface is configured.
	SetPresentMode(mode PresentMode)

	// MaxTextureDimension returns the largest texture side the device accepts.
	//
	// Returns:
	//   - int: the maximum 2D texture dimension in pixels
	MaxTextureDimension() int

	// InitMeshBuffers creates and fills the vertex and index buffers of a mesh and stores them on the provider.
	//
	// Parameters:
	//   - provider: the provider that will own the buffers
	//   - vertexData: the raw vertex bytes
	//   - indexData: the raw uint32 index bytes
	//   - indexCount: the number of indices in indexData
	//
	// Returns:
	//   - error: an error if a buffer could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the bind group for a provider from a layout descriptor. Buffers are created
	// for buffer bindings that have none, sized by MinBindingSize. Texture and sampler bindings must already
	// be set with InitTextureView and InitSampler.
	//
	// Parameters:
	//   - provider: the provider to build the bind group for
	//   - descriptor: the merged layout descriptor of the provider's group
	//
	// Returns:
	//   - error: an error if a resource is missing or could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads RGBA pixels into a new sRGB texture and stores it on the provider.
	//
	// Parameters:
	//   - provider: the provider that will own the texture
	//   - binding: the binding index of the texture
	//   - stagingData: the decoded pixels
	//
	// Returns:
	//   - error: an error if the texture or view could not be created
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on the provider.
	//
	// Parameters:
	//   - provider: the provider that will own the sampler
	//   - binding: the binding index of the sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if the sampler could not be created
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues buffer writes. Writes to released providers are skipped.
	//
	// Parameters:
	//   - writes: the writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next swapchain texture and begins the render pass.
	//
	// Returns:
	//   - error: ErrSurfaceUnavailable while the surface is zero-sized, or the acquisition error
	BeginFrame() error

	// DrawCall draws the indexed mesh of meshProvider with a cached pipeline. Each bind group provider is
	// set at its own Group index.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered pipeline
	//   - meshProvider: the provider holding the vertex and index buffers
	//   - bindGroups: the providers whose bind groups the pipeline reads
	//
	// Returns:
	//   - error: an error if the pipeline is not cached or a provider was released
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups ...bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame()

	// Present presents the frame and releases the swapchain texture.
	Present()

	// Release frees the pipelines, the surface attachments and the device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer presenting into target with the specified backend type.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - target: the window supplying the surface descriptor and the initial framebuffer size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if no adapter or device could be obtained
func NewRenderer(backendType RendererBackendType, target Target, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		if opt == nil {
			panic("renderer: nil option")
		}
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(target.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}

	r.backend.ConfigureSurface(target.Width(), target.Height())
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) MaxTextureDimension() int {
	return r.backend.MaxTextureDimension()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("renderer: pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, binding, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, binding, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups ...bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	if meshProvider.Released() {
		return fmt.Errorf("mesh %q was released", meshProvider.Label())
	}
	for _, bg := range bindGroups {
		if bg.Released() || bg.BindGroup() == nil {
			return fmt.Errorf("bind group %q is not ready", bg.Label())
		}
	}

	r.backend.DrawCall(p, meshProvider, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.pipelineCache {
		if rp := p.RenderPipeline(); rp != nil {
			rp.Release()
		}
		delete(r.pipelineCache, key)
	}
	r.backend.Release()
}
