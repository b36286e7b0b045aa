package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const vertSource = `//@oxy:include vertex
//@oxy:include hover
//@oxy:group 0 0 storage_uniform u hover

@vertex
fn vs_main(input: VertexInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(input.position * u.zoom, 0.0, 1.0);
}
`

const fragSource = `//@oxy:include hover
//@oxy:include plane
//@oxy:group 0 0 storage_uniform u hover
//@oxy:group 0 1 storage_uniform params plane
//@oxy:provider 1 0 slide slide_texture
@group(1) @binding(0) var slideTexture: texture_2d<f32>;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(u.progress, params.highlight, 0.0, 1.0);
}
`

func newTestPipeline(t *testing.T, opts ...PipelineBuilderOption) Pipeline {
	t.Helper()
	base := []PipelineBuilderOption{
		WithVertexShader(shader.MustShader("vert", shader.ShaderTypeVertex, vertSource)),
		WithFragmentShader(shader.MustShader("frag", shader.ShaderTypeFragment, fragSource)),
	}
	return NewPipeline("plane", append(base, opts...)...)
}

func TestNewPipelineDefaults(t *testing.T) {
	p := newTestPipeline(t)
	if p.PipelineKey() != "plane" {
		t.Errorf("PipelineKey() = %q, want plane", p.PipelineKey())
	}
	if !p.BlendEnabled() {
		t.Errorf("BlendEnabled() = false, want true")
	}
	if p.CullMode() != wgpu.CullModeNone {
		t.Errorf("CullMode() = %v, want none", p.CullMode())
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("Topology() = %v, want triangle list", p.Topology())
	}
	if p.RenderPipeline() != nil {
		t.Errorf("RenderPipeline() is set before registration")
	}
	if p.Shader(shader.ShaderTypeVertex) == nil || p.Shader(shader.ShaderTypeFragment) == nil {
		t.Errorf("Shader() lost a stage")
	}
	if p.Shader(shader.ShaderType(7)) != nil {
		t.Errorf("Shader(unknown) != nil")
	}
}

func TestPipelineOptions(t *testing.T) {
	p := newTestPipeline(t,
		WithBlendEnabled(false),
		WithCullMode(wgpu.CullModeBack),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
		WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
		WithBlendState(nil),
	)
	if p.BlendEnabled() {
		t.Errorf("BlendEnabled() = true, want false")
	}
	if p.CullMode() != wgpu.CullModeBack || p.FrontFace() != wgpu.FrontFaceCW {
		t.Errorf("cull/front face options not applied")
	}
	if p.WriteMask() != wgpu.ColorWriteMaskRed || p.Topology() != wgpu.PrimitiveTopologyTriangleStrip {
		t.Errorf("write mask/topology options not applied")
	}
	if p.BlendState() != nil {
		t.Errorf("BlendState() = %v, want nil", p.BlendState())
	}
}

func TestPipelineMergedLayouts(t *testing.T) {
	p := newTestPipeline(t)
	if got := p.GroupCount(); got != 2 {
		t.Fatalf("GroupCount() = %d, want 2", got)
	}

	group0 := p.BindGroupLayoutDescriptor(0).Entries
	if len(group0) != 2 {
		t.Fatalf("len(group 0 entries) = %d, want 2", len(group0))
	}
	if want := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment; group0[0].Visibility != want {
		t.Errorf("shared binding visibility = %v, want %v", group0[0].Visibility, want)
	}
	if group0[1].Visibility != wgpu.ShaderStageFragment {
		t.Errorf("fragment-only binding visibility = %v, want fragment", group0[1].Visibility)
	}
	if group0[0].Binding != 0 || group0[1].Binding != 1 {
		t.Errorf("entries not sorted by binding: %d, %d", group0[0].Binding, group0[1].Binding)
	}

	group1 := p.BindGroupLayoutDescriptor(1).Entries
	if len(group1) != 1 || group1[0].Texture.SampleType != wgpu.TextureSampleTypeFloat {
		t.Errorf("group 1 = %+v, want one float texture entry", group1)
	}
	if n := len(p.BindGroupLayoutDescriptor(5).Entries); n != 0 {
		t.Errorf("undeclared group has %d entries", n)
	}
}

func TestNewPipelinePanics(t *testing.T) {
	vert := shader.MustShader("vert", shader.ShaderTypeVertex, vertSource)
	tests := []struct {
		name string
		opts []PipelineBuilderOption
	}{
		{"missing fragment", []PipelineBuilderOption{WithVertexShader(vert)}},
		{"missing both", nil},
		{"nil option", []PipelineBuilderOption{WithVertexShader(vert), nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("NewPipeline() did not panic")
				}
			}()
			NewPipeline("broken", tt.opts...)
		})
	}
}
