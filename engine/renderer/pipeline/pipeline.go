package pipeline

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It pairs a vertex and fragment shader with the fixed-function state used to build a render pipeline.
type pipeline struct {
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is set by the renderer once the GPU pipeline has been created.
	renderPipeline *wgpu.RenderPipeline

	// layouts caches the merged bind group layouts of both stages.
	layouts map[int]wgpu.BindGroupLayoutDescriptor

	blendEnabled bool
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState
}

// Pipeline describes a render pipeline for drawing planes: its shaders, the bind group layouts they
// declare, and the fixed-function state. The GPU object itself is created by the renderer.
type Pipeline interface {
	// PipelineKey returns the unique key identifying this pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Shader returns the shader attached to the given stage.
	//
	// Parameters:
	//   - shaderType: the stage to look up
	//
	// Returns:
	//   - shader.Shader: the shader, or nil for an unknown stage
	Shader(shaderType shader.ShaderType) shader.Shader

	// RenderPipeline returns the GPU render pipeline, or nil until the renderer has registered it.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline object
	RenderPipeline() *wgpu.RenderPipeline

	// BindGroupLayoutDescriptors returns the bind group layouts of the vertex and fragment shaders merged
	// by group index. Bindings declared in both stages carry the union of both visibilities.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptor returns the merged layout for one group.
	//
	// Parameters:
	//   - group: the group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the merged descriptor, or an empty descriptor if neither stage declares the group
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// GroupCount returns one more than the highest group index used by either stage.
	GroupCount() int

	BlendEnabled() bool
	CullMode() wgpu.CullMode
	Topology() wgpu.PrimitiveTopology
	FrontFace() wgpu.FrontFace
	WriteMask() wgpu.ColorWriteMask
	BlendState() *wgpu.BlendState

	// SetRenderPipeline stores the GPU pipeline created by the renderer.
	//
	// Parameters:
	//   - rp: the created render pipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new Pipeline with alpha blending enabled, no culling and a triangle list topology.
// Both a vertex and a fragment shader must be supplied through the options.
//
// Parameters:
//   - pipelineKey: a unique key identifying the pipeline
//   - opts: functional options for the shaders and fixed-function state
//
// Returns:
//   - Pipeline: the configured pipeline
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:  pipelineKey,
		blendEnabled: true,
		cullMode:     wgpu.CullModeNone,
		topology:     wgpu.PrimitiveTopologyTriangleList,
		frontFace:    wgpu.FrontFaceCCW,
		writeMask:    wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		if opt == nil {
			panic(fmt.Sprintf("pipeline: %s got a nil option", pipelineKey))
		}
		opt(p)
	}
	if p.vertexShader == nil || p.fragmentShader == nil {
		panic(fmt.Sprintf("pipeline: %s needs both a vertex and a fragment shader", pipelineKey))
	}
	p.layouts = mergeBindGroupLayouts(p.vertexShader.BindGroupLayoutDescriptors(), p.fragmentShader.BindGroupLayoutDescriptors())
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return p.layouts
}

func (p *pipeline) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return p.layouts[group]
}

func (p *pipeline) GroupCount() int {
	n := 0
	for g := range p.layouts {
		if g+1 > n {
			n = g + 1
		}
	}
	return n
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

// mergeBindGroupLayouts merges the bind group layout descriptors of a vertex and a fragment shader.
// Entries sharing a binding number have their visibility ORed. Entries unique to one stage keep theirs.
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	entries := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	collect := func(layouts map[int]wgpu.BindGroupLayoutDescriptor) {
		for g, desc := range layouts {
			if entries[g] == nil {
				entries[g] = make(map[uint32]wgpu.BindGroupLayoutEntry)
			}
			for _, e := range desc.Entries {
				if existing, ok := entries[g][e.Binding]; ok {
					existing.Visibility |= e.Visibility
					entries[g][e.Binding] = existing
					continue
				}
				entries[g][e.Binding] = e
			}
		}
	}
	collect(vertexLayouts)
	collect(fragmentLayouts)

	for g, byBinding := range entries {
		flat := make([]wgpu.BindGroupLayoutEntry, 0, len(byBinding))
		for _, e := range byBinding {
			flat = append(flat, e)
		}
		sort.Slice(flat, func(i, j int) bool {
			return flat[i].Binding < flat[j].Binding
		})
		merged[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("group %d", g),
			Entries: flat,
		}
	}
	return merged
}
