package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "line comment", in: "a: f32, // note\nb: f32,\n", want: "a: f32, \nb: f32,\n"},
		{name: "block comment keeps newlines", in: "a /* x\ny */ b", want: "a \n b"},
		{name: "nested block", in: "a /* x /* y */ z */ b", want: "a  b"},
		{name: "line marker inside block", in: "a /* // */ b\n", want: "a  b\n"},
		{name: "no trailing newline", in: "a // tail", want: "a "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripComments(tt.in); got != tt.want {
				t.Errorf("stripComments() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniformStructSize(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   uint64
		wantOK bool
	}{
		{name: "scalars", body: "a: f32, b: u32, c: i32", want: 12, wantOK: true},
		{name: "vec2 aligns to 8", body: "a: f32, b: vec2<f32>", want: 16, wantOK: true},
		{name: "vec3 aligns to 16", body: "a: f32, b: vec3f, c: f32", want: 32, wantOK: true},
		{name: "trailing comma", body: "a: vec4<f32>, b: f32,", want: 32, wantOK: true},
		{name: "builtin skipped", body: "@builtin(position) p: vec4<f32>, a: f32", want: 4, wantOK: true},
		{name: "array unsupported", body: "a: array<f32, 4>"},
		{name: "nested struct unsupported", body: "a: Other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := parsedStruct{name: "S", fields: parseStructFields(tt.body)}
			got, ok := uniformStructSize(ps)
			if ok != tt.wantOK {
				t.Fatalf("uniformStructSize() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("uniformStructSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassifySampledTexture(t *testing.T) {
	var e wgpu.BindGroupLayoutEntry
	classifySampledTexture("texture_2d<f32>", &e)
	if e.Texture.ViewDimension != wgpu.TextureViewDimension2D || e.Texture.SampleType != wgpu.TextureSampleTypeFloat {
		t.Errorf("texture_2d<f32> = %+v", e.Texture)
	}
	if e.Texture.Multisampled {
		t.Error("texture_2d<f32> marked multisampled")
	}

	var ms wgpu.BindGroupLayoutEntry
	classifySampledTexture("texture_multisampled_2d<f32>", &ms)
	if !ms.Texture.Multisampled {
		t.Error("texture_multisampled_2d<f32> not marked multisampled")
	}
}
