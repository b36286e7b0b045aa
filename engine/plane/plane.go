// Package plane draws one textured, subdivided quad per slide and implements hover.Surface on top of
// the renderer.
//
// A plane is built without touching the GPU. Its bind groups, texture and mesh are created by the
// first Prepare on the frame loop, after which its ready callbacks fire. Every later frame Prepare
// runs the render callbacks and uploads the mirrored uniforms; Draw records one indexed draw.
package plane

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-hover/common"
	"github.com/Carmen-Shannon/oxy-hover/engine/hover"
	"github.com/Carmen-Shannon/oxy-hover/engine/logging"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-hover/engine/uniform"
	"go.uber.org/zap"
)

// DefaultOutlineWidth is the width of the debug outline in pixels.
const DefaultOutlineWidth = 3

// plane is the implementation of the Plane interface.
type plane struct {
	label    string
	rect     Rect
	viewW    float64
	viewH    float64
	pipeline pipeline.Pipeline
	decls    []uniform.Declaration
	texture  common.TextureStagingData
	sampler  common.SamplerStagingData
	outline  float32
	log      *zap.Logger

	// binding locations resolved from the fragment shader's annotations
	uniformGroup   int
	hoverBinding   int
	paramsBinding  int
	slideGroup     int
	textureBinding int
	samplerBinding int

	mesh     bind_group_provider.BindGroupProvider
	uniforms bind_group_provider.BindGroupProvider
	slide    bind_group_provider.BindGroupProvider

	block       uniform.Block
	highlight   bool
	blockDirty  bool
	paramsDirty bool
	meshDirty   bool

	valid   bool
	ready   bool
	failed  bool
	removed bool

	readyFns  []func()
	renderFns []func()

	enter, leave func()
	hovered      bool
}

// Plane is a textured quad drawn with a hover or static pipeline.
// All methods must be called from the frame loop goroutine.
type Plane interface {
	hover.Surface

	// Label returns the name used for GPU resource labels and logs.
	Label() string

	// Prepare creates the GPU resources on first use, fires the ready and render callbacks and
	// queues the uniform uploads.
	//
	// Parameters:
	//   - r: the renderer of the current frame
	Prepare(r renderer.Renderer)

	// Draw records the plane's draw call. Planes that are not ready, failed or removed draw nothing.
	//
	// Parameters:
	//   - r: the renderer of the current frame
	//
	// Returns:
	//   - error: the renderer's draw error, if any
	Draw(r renderer.Renderer) error

	// Rect returns the plane's placement in window pixels.
	Rect() Rect

	// SetLayout moves the plane. The mesh is rebuilt on the next Prepare.
	//
	// Parameters:
	//   - rect: the new placement in window pixels
	//   - viewW, viewH: the framebuffer size in pixels
	SetLayout(rect Rect, viewW, viewH float64)

	// PointerEnter marks the plane hovered and calls the bound enter handler.
	PointerEnter()

	// PointerLeave clears the hovered mark and calls the bound leave handler.
	PointerLeave()

	// Hovered reports whether the pointer is over the plane.
	Hovered() bool

	// Highlighted reports whether the debug outline is drawn.
	Highlighted() bool

	// Ready reports whether the plane's GPU resources exist.
	Ready() bool

	// Removed reports whether Remove has been called.
	Removed() bool

	// Uniforms returns the last mirrored uniform state.
	Uniforms() uniform.Block
}

var _ Plane = &plane{}

// NewPlane creates a Plane. A pipeline is required. The plane is invalid, and never becomes ready, if
// its rect or texture is empty, the declarations do not match the shader, or the shader does not
// declare the uniform and slide bindings.
//
// Parameters:
//   - label: the name used for GPU resource labels and logs
//   - options: variadic list of PlaneBuilderOption functions
//
// Returns:
//   - Plane: the plane
func NewPlane(label string, options ...PlaneBuilderOption) Plane {
	p := &plane{
		label:   label,
		sampler: common.DefaultSampler(),
		outline: DefaultOutlineWidth,
		block:   uniform.Rest(),
		log:     logging.Named("plane"),
	}
	p.decls = uniform.Declarations(p.block)

	for _, opt := range options {
		if opt == nil {
			panic("plane: nil option")
		}
		opt(p)
	}
	if p.pipeline == nil {
		panic("plane: a pipeline is required, use WithPipeline")
	}

	if err := p.validate(); err != nil {
		p.log.Warn("plane is invalid", zap.String("plane", p.label), zap.Error(err))
		return p
	}
	p.valid = true
	p.blockDirty = true
	p.paramsDirty = true
	p.meshDirty = true
	return p
}

// validate resolves the binding locations and checks the plane's inputs.
func (p *plane) validate() error {
	if p.rect.Empty() {
		return fmt.Errorf("empty rect %+v", p.rect)
	}
	if p.texture.Width == 0 || p.texture.Height == 0 {
		return fmt.Errorf("no texture")
	}

	fs := p.pipeline.Shader(shader.ShaderTypeFragment)
	if err := ValidateDeclarations(p.decls, fs.StructFields(UniformStruct)); err != nil {
		return err
	}

	decls := fs.Declarations()
	var ok bool
	var paramsGroup, samplerGroup int
	if p.uniformGroup, p.hoverBinding, ok = shader.FindBinding(decls, shader.AnnotationArgHover); !ok {
		return fmt.Errorf("shader %q does not bind the hover uniforms", fs.Key())
	}
	if paramsGroup, p.paramsBinding, ok = shader.FindBinding(decls, shader.AnnotationArgPlane); !ok {
		return fmt.Errorf("shader %q does not bind the plane params", fs.Key())
	}
	if p.slideGroup, p.textureBinding, ok = shader.FindBinding(decls, shader.AnnotationArgSlide, shader.AnnotationArgSlideTexture); !ok {
		return fmt.Errorf("shader %q does not bind the slide texture", fs.Key())
	}
	if samplerGroup, p.samplerBinding, ok = shader.FindBinding(decls, shader.AnnotationArgSlide, shader.AnnotationArgSlideSampler); !ok {
		return fmt.Errorf("shader %q does not bind the slide sampler", fs.Key())
	}
	if paramsGroup != p.uniformGroup || samplerGroup != p.slideGroup {
		return fmt.Errorf("shader %q splits the uniform or slide bindings across groups", fs.Key())
	}
	return nil
}

func (p *plane) Label() string {
	return p.label
}

func (p *plane) Valid() bool {
	return p.valid && !p.failed
}

func (p *plane) OnReady(fn func()) {
	if p.removed || fn == nil {
		return
	}
	p.readyFns = append(p.readyFns, fn)
}

func (p *plane) OnRender(fn func()) {
	if p.removed || fn == nil {
		return
	}
	p.renderFns = append(p.renderFns, fn)
}

func (p *plane) BindPointer(enter, leave func()) {
	p.enter = enter
	p.leave = leave
}

func (p *plane) UnbindPointer() {
	p.enter = nil
	p.leave = nil
}

func (p *plane) Mirror(b uniform.Block) {
	if p.removed {
		return
	}
	p.block = b
	p.blockDirty = true
}

func (p *plane) SetHighlight(on bool) {
	if p.highlight == on {
		return
	}
	p.highlight = on
	p.paramsDirty = true
}

func (p *plane) Remove() {
	if p.removed {
		return
	}
	p.removed = true
	p.readyFns = nil
	p.renderFns = nil
	p.UnbindPointer()
	p.release()
	p.texture = common.TextureStagingData{}
}

func (p *plane) Rect() Rect {
	return p.rect
}

func (p *plane) SetLayout(rect Rect, viewW, viewH float64) {
	p.rect = rect
	p.viewW = viewW
	p.viewH = viewH
	p.meshDirty = true
	p.paramsDirty = true
}

func (p *plane) PointerEnter() {
	if p.hovered {
		return
	}
	p.hovered = true
	if p.enter != nil {
		p.enter()
	}
}

func (p *plane) PointerLeave() {
	if !p.hovered {
		return
	}
	p.hovered = false
	if p.leave != nil {
		p.leave()
	}
}

func (p *plane) Hovered() bool {
	return p.hovered
}

func (p *plane) Highlighted() bool {
	return p.highlight
}

func (p *plane) Ready() bool {
	return p.ready && !p.removed && !p.failed
}

func (p *plane) Removed() bool {
	return p.removed
}

func (p *plane) Uniforms() uniform.Block {
	return p.block
}

func (p *plane) Prepare(r renderer.Renderer) {
	if p.removed || !p.Valid() {
		return
	}
	if !p.ready {
		if err := p.init(r); err != nil {
			p.fail(err)
			return
		}
		p.ready = true
	}
	if p.meshDirty {
		if err := p.buildMesh(r); err != nil {
			p.fail(err)
			return
		}
	}

	ready := p.readyFns
	p.readyFns = nil
	for _, fn := range ready {
		if p.removed {
			return
		}
		fn()
	}
	for _, fn := range p.renderFns {
		if p.removed {
			return
		}
		fn()
	}
	if p.removed {
		return
	}

	var writes []bind_group_provider.BufferWrite
	if p.blockDirty {
		gpu := p.block.GPU()
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: p.uniforms,
			Binding:  p.hoverBinding,
			Data:     gpu.Marshal(),
		})
		p.blockDirty = false
	}
	if p.paramsDirty {
		params := p.params()
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: p.uniforms,
			Binding:  p.paramsBinding,
			Data:     params.Marshal(),
		})
		p.paramsDirty = false
	}
	if len(writes) > 0 {
		r.WriteBuffers(writes)
	}
}

func (p *plane) Draw(r renderer.Renderer) error {
	if !p.Ready() || p.mesh == nil {
		return nil
	}
	return r.DrawCall(p.pipeline.PipelineKey(), p.mesh, p.uniforms, p.slide)
}

func (p *plane) params() uniform.GPUPlaneParams {
	params := uniform.GPUPlaneParams{
		Extent:  [2]float32{float32(p.rect.W), float32(p.rect.H)},
		Outline: p.outline,
	}
	if p.highlight {
		params.Highlight = 1
	}
	return params
}

// init creates the uniform buffers, uploads the texture and builds both bind groups.
func (p *plane) init(r renderer.Renderer) error {
	p.uniforms = bind_group_provider.NewBindGroupProvider(p.label+" uniforms",
		bind_group_provider.WithGroup(p.uniformGroup),
	)
	if err := r.InitBindGroup(p.uniforms, p.pipeline.BindGroupLayoutDescriptor(p.uniformGroup)); err != nil {
		return fmt.Errorf("uniform bind group: %w", err)
	}

	p.slide = bind_group_provider.NewBindGroupProvider(p.label+" slide",
		bind_group_provider.WithGroup(p.slideGroup),
	)
	if err := r.InitTextureView(p.slide, p.textureBinding, p.texture); err != nil {
		return fmt.Errorf("slide texture: %w", err)
	}
	if err := r.InitSampler(p.slide, p.samplerBinding, p.sampler); err != nil {
		return fmt.Errorf("slide sampler: %w", err)
	}
	if err := r.InitBindGroup(p.slide, p.pipeline.BindGroupLayoutDescriptor(p.slideGroup)); err != nil {
		return fmt.Errorf("slide bind group: %w", err)
	}

	// the pixels live on the GPU now
	p.texture = common.TextureStagingData{Width: p.texture.Width, Height: p.texture.Height}
	return nil
}

func (p *plane) buildMesh(r renderer.Renderer) error {
	if p.mesh != nil {
		p.mesh.Release()
	}
	p.mesh = bind_group_provider.NewBindGroupProvider(p.label + " mesh")

	ndc := common.PixelRectToNDC(p.rect.X, p.rect.Y, p.rect.W, p.rect.H, p.viewW, p.viewH)
	vertices, indices := Grid(ndc, Segments, Segments)
	if err := r.InitMeshBuffers(p.mesh, common.SliceToBytes(vertices), common.SliceToBytes(indices), len(indices)); err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	p.meshDirty = false
	return nil
}

func (p *plane) fail(err error) {
	p.failed = true
	p.log.Error("plane GPU setup failed", zap.String("plane", p.label), zap.Error(err))
	p.release()
}

func (p *plane) release() {
	for _, provider := range []bind_group_provider.BindGroupProvider{p.mesh, p.uniforms, p.slide} {
		if provider != nil {
			provider.Release()
		}
	}
	p.mesh = nil
	p.uniforms = nil
	p.slide = nil
}
