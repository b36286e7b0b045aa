package shader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-hover/engine/uniform"
)

func TestPreProcessorProcess(t *testing.T) {
	src := strings.Join([]string{
		"//@oxy:include hover",
		"//@oxy:include hover",
		"//@oxy:group 0 0 storage_uniform u hover",
		"//@oxy:group 2 1 storage_read params plane",
		"//@oxy:provider 1 0 slide slide_texture",
		"@group(1) @binding(0) var slideTexture: texture_2d<f32>;",
	}, "\n")

	pp := NewPreProcessor()
	out, err := pp.Process(src)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if n := strings.Count(out, "struct HoverUniforms"); n != 1 {
		t.Errorf("HoverUniforms included %d times, want 1", n)
	}
	if !strings.Contains(out, strings.TrimRight(uniform.GPUHoverUniformsSource, "\n")) {
		t.Errorf("Process() output is missing the HoverUniforms source")
	}
	for _, want := range []string{
		"@group(0) @binding(0) var<uniform> u: HoverUniforms;",
		"@group(2) @binding(1) var<storage, read> params: PlaneParams;",
		"@group(1) @binding(0) var slideTexture: texture_2d<f32>;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Process() output is missing %q", want)
		}
	}
	if strings.Contains(out, "@oxy:") {
		t.Errorf("Process() output still contains annotations:\n%s", out)
	}

	decls := pp.Declarations()
	if len(decls) != 3 {
		t.Fatalf("len(Declarations()) = %d, want 3", len(decls))
	}
	wantTypes := []AnnotationType{AnnotationTypeBindingGroup, AnnotationTypeBindingGroup, AnnotationTypeProvider}
	for i, want := range wantTypes {
		if decls[i].Type != want {
			t.Errorf("Declarations()[%d].Type = %q, want %q", i, decls[i].Type, want)
		}
	}
	if decls[2].Line != 5 {
		t.Errorf("provider declaration line = %d, want 5", decls[2].Line)
	}
}

func TestPreProcessorResetsDeclarations(t *testing.T) {
	pp := NewPreProcessor()
	if _, err := pp.Process("//@oxy:group 0 0 storage_uniform u hover"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if _, err := pp.Process("fn main() {}"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if n := len(pp.Declarations()); n != 0 {
		t.Errorf("len(Declarations()) after second Process = %d, want 0", n)
	}
}

func TestPreProcessorErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown include", "//@oxy:include lights"},
		{"malformed group", "//@oxy:group 0 storage_uniform u hover"},
		{"unknown annotation", "//@oxy:material 0 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPreProcessor().Process(tt.src); err == nil {
				t.Errorf("Process(%q) error = nil, want error", tt.src)
			}
		})
	}
}

func TestPreProcessorPassesThroughPlainSource(t *testing.T) {
	src := "// header\nfn f() -> f32 {\n    return 1.0;\n}"
	out, err := NewPreProcessor().Process(src)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if out != src {
		t.Errorf("Process() = %q, want %q", out, src)
	}
}
