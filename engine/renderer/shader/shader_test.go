package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const testVertexSource = `//@oxy:include vertex
//@oxy:include hover
//@oxy:group 0 0 storage_uniform u hover

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(input: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = vec4<f32>(input.position * u.zoom, 0.0, 1.0);
    out.uv = input.uv;
    return out;
}
`

const testFragmentSource = `//@oxy:include hover
//@oxy:include plane
//@oxy:group 0 0 storage_uniform u hover
//@oxy:group 0 1 storage_uniform params plane

//@oxy:provider 1 0 slide slide_texture
@group(1) @binding(0) var slideTexture: texture_2d<f32>;
//@oxy:provider 1 1 slide slide_sampler
@group(1) @binding(1) var slideSampler: sampler;

/* block comments are ignored: @fragment fn decoy() {} */
@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(slideTexture, slideSampler, uv) * u.progress;
}
`

func TestNewShaderVertex(t *testing.T) {
	s, err := NewShader("vert", ShaderTypeVertex, testVertexSource)
	if err != nil {
		t.Fatalf("NewShader() error = %v", err)
	}
	if got := s.EntryPoint(); got != "vs_main" {
		t.Errorf("EntryPoint() = %q, want vs_main", got)
	}
	if s.Module() == nil || s.Module().WGSLDescriptor.Code != s.Source() {
		t.Errorf("Module() does not carry the processed source")
	}

	layouts := s.VertexLayouts()
	if len(layouts) != 1 {
		t.Fatalf("len(VertexLayouts()) = %d, want 1", len(layouts))
	}
	layout := s.VertexLayout(0)[0]
	if layout.ArrayStride != 16 {
		t.Errorf("ArrayStride = %d, want 16", layout.ArrayStride)
	}
	wantAttrs := []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
	}
	if len(layout.Attributes) != len(wantAttrs) {
		t.Fatalf("len(Attributes) = %d, want %d", len(layout.Attributes), len(wantAttrs))
	}
	for i, want := range wantAttrs {
		if got := layout.Attributes[i]; got != want {
			t.Errorf("Attributes[%d] = %+v, want %+v", i, got, want)
		}
	}

	desc := s.BindGroupLayoutDescriptor(0)
	if len(desc.Entries) != 1 {
		t.Fatalf("len(group 0 entries) = %d, want 1", len(desc.Entries))
	}
	entry := desc.Entries[0]
	if entry.Buffer.Type != wgpu.BufferBindingTypeUniform {
		t.Errorf("Buffer.Type = %v, want uniform", entry.Buffer.Type)
	}
	if entry.Buffer.MinBindingSize != 64 {
		t.Errorf("MinBindingSize = %d, want 64", entry.Buffer.MinBindingSize)
	}
	if entry.Visibility != wgpu.ShaderStageVertex {
		t.Errorf("Visibility = %v, want vertex", entry.Visibility)
	}
	if got := s.BindGroupVarName(0, 0); got != "u" {
		t.Errorf("BindGroupVarName(0, 0) = %q, want u", got)
	}
	if b, ok := s.BindGroupFromVarName(0, "u"); !ok || b != 0 {
		t.Errorf("BindGroupFromVarName(0, u) = %d, %v, want 0, true", b, ok)
	}
	if _, ok := s.BindGroupFromVarName(3, "u"); ok {
		t.Errorf("BindGroupFromVarName(3, u) found a binding in an undeclared group")
	}
}

func TestNewShaderFragment(t *testing.T) {
	s, err := NewShader("frag", ShaderTypeFragment, testFragmentSource)
	if err != nil {
		t.Fatalf("NewShader() error = %v", err)
	}
	if got := s.EntryPoint(); got != "fs_main" {
		t.Errorf("EntryPoint() = %q, want fs_main", got)
	}
	if len(s.VertexLayouts()) != 0 {
		t.Errorf("fragment shader parsed %d vertex layouts, want 0", len(s.VertexLayouts()))
	}

	group0 := s.BindGroupLayoutDescriptor(0).Entries
	if len(group0) != 2 {
		t.Fatalf("len(group 0 entries) = %d, want 2", len(group0))
	}
	if group0[1].Buffer.MinBindingSize != 16 {
		t.Errorf("PlaneParams MinBindingSize = %d, want 16", group0[1].Buffer.MinBindingSize)
	}

	group1 := s.BindGroupLayoutDescriptor(1).Entries
	if len(group1) != 2 {
		t.Fatalf("len(group 1 entries) = %d, want 2", len(group1))
	}
	tex := group1[0].Texture
	if tex.SampleType != wgpu.TextureSampleTypeFloat || tex.ViewDimension != wgpu.TextureViewDimension2D || tex.Multisampled {
		t.Errorf("texture entry = %+v, want float 2D single-sampled", tex)
	}
	if group1[1].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Errorf("sampler entry type = %v, want filtering", group1[1].Sampler.Type)
	}
	for _, e := range append(group0, group1...) {
		if e.Visibility != wgpu.ShaderStageFragment {
			t.Errorf("binding %d visibility = %v, want fragment", e.Binding, e.Visibility)
		}
	}

	g, b, ok := FindBinding(s.Declarations(), AnnotationArgSlide, AnnotationArgSlideSampler)
	if !ok || g != 1 || b != 1 {
		t.Errorf("FindBinding(slide sampler) = %d, %d, %v, want 1, 1, true", g, b, ok)
	}
}

func TestStructFields(t *testing.T) {
	s := MustShader("frag", ShaderTypeFragment, testFragmentSource)

	want := []string{
		"time", "progress", "mousepos", "resolution", "displacement", "tex1Scale",
		"zoom", "rotation", "noiseSpeed", "noiseScale", "rgbShift", "pad0",
	}
	got := s.StructFields("HoverUniforms")
	if len(got) != len(want) {
		t.Fatalf("len(StructFields(HoverUniforms)) = %d, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("StructFields(HoverUniforms)[%d].Name = %q, want %q", i, got[i].Name, name)
		}
	}
	if got[2].Type != "vec2<f32>" {
		t.Errorf("mousepos type = %q, want vec2<f32>", got[2].Type)
	}
	if fields := s.StructFields("Missing"); fields != nil {
		t.Errorf("StructFields(Missing) = %v, want nil", fields)
	}
}

func TestNewShaderErrors(t *testing.T) {
	tests := []struct {
		name       string
		shaderType ShaderType
		source     string
	}{
		{"empty source", ShaderTypeVertex, ""},
		{"wrong stage", ShaderTypeVertex, testFragmentSource},
		{"bad annotation", ShaderTypeFragment, "//@oxy:include nope\n" + testFragmentSource},
		{"entry point only in comment", ShaderTypeFragment, "// @fragment fn fake() {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewShader("bad", tt.shaderType, tt.source); err == nil {
				t.Errorf("NewShader() error = nil, want error")
			}
		})
	}
}

func TestMustShaderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("MustShader() did not panic on empty source")
		}
	}()
	MustShader("bad", ShaderTypeFragment, "")
}

func TestShaderTypeString(t *testing.T) {
	if got := ShaderTypeVertex.String(); got != "vertex" {
		t.Errorf("ShaderTypeVertex.String() = %q, want vertex", got)
	}
	if got := ShaderType(9).String(); got != "unknown" {
		t.Errorf("ShaderType(9).String() = %q, want unknown", got)
	}
}
