package shader

import (
	"slices"
	"testing"
)

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantNil     bool
		wantErr     bool
		wantType    AnnotationType
		wantArgs    []AnnotationArg
		wantGroup   int
		wantBinding int
	}{
		{name: "plain code", line: "let x = 1.0;", wantNil: true},
		{name: "plain comment", line: "// just a note", wantNil: true},
		{name: "prefix outside comment", line: `let s = "@oxy:include hover";`, wantNil: true},
		{name: "include", line: "//@oxy:include hover", wantType: annotationTypeInclude, wantArgs: []AnnotationArg{AnnotationArgHover}},
		{name: "include indented", line: "    // @oxy:include plane", wantType: annotationTypeInclude, wantArgs: []AnnotationArg{AnnotationArgPlane}},
		{
			name:        "group",
			line:        "//@oxy:group 0 1 storage_uniform params plane",
			wantType:    AnnotationTypeBindingGroup,
			wantArgs:    []AnnotationArg{annotationArgStorageTypeUniform, "params", AnnotationArgPlane},
			wantGroup:   0,
			wantBinding: 1,
		},
		{
			name:        "provider with role",
			line:        "//@oxy:provider 1 0 slide slide_texture",
			wantType:    AnnotationTypeProvider,
			wantArgs:    []AnnotationArg{AnnotationArgSlide, AnnotationArgSlideTexture},
			wantGroup:   1,
			wantBinding: 0,
		},
		{
			name:        "provider without role",
			line:        "//@oxy:provider 2 3 slide",
			wantType:    AnnotationTypeProvider,
			wantArgs:    []AnnotationArg{AnnotationArgSlide},
			wantGroup:   2,
			wantBinding: 3,
		},
		{name: "empty", line: "//@oxy:", wantErr: true},
		{name: "unknown type", line: "//@oxy:camera 0 0", wantErr: true},
		{name: "include unknown struct", line: "//@oxy:include camera", wantErr: true},
		{name: "include extra args", line: "//@oxy:include hover plane", wantErr: true},
		{name: "group too few args", line: "//@oxy:group 0 0 storage_uniform u", wantErr: true},
		{name: "group bad number", line: "//@oxy:group a 0 storage_uniform u hover", wantErr: true},
		{name: "group negative binding", line: "//@oxy:group 0 -1 storage_uniform u hover", wantErr: true},
		{name: "group bad address space", line: "//@oxy:group 0 0 private u hover", wantErr: true},
		{name: "provider unknown identity", line: "//@oxy:provider 1 0 shadow", wantErr: true},
		{name: "provider unknown role", line: "//@oxy:provider 1 0 slide diffuse", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnnotation(tt.line, 7)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseAnnotation(%q) error = nil, want error", tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnnotation(%q) error = %v", tt.line, err)
			}
			if tt.wantNil {
				if a != nil {
					t.Errorf("parseAnnotation(%q) = %+v, want nil", tt.line, a)
				}
				return
			}
			if a == nil {
				t.Fatalf("parseAnnotation(%q) = nil, want annotation", tt.line)
			}
			if a.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", a.Type, tt.wantType)
			}
			if !slices.Equal(a.Args, tt.wantArgs) {
				t.Errorf("Args = %v, want %v", a.Args, tt.wantArgs)
			}
			if a.Line != 7 {
				t.Errorf("Line = %d, want 7", a.Line)
			}
			if tt.wantType == annotationTypeInclude {
				if a.Group != nil || a.Binding != nil {
					t.Errorf("include annotation carries group/binding")
				}
				return
			}
			if a.Group == nil || *a.Group != tt.wantGroup || a.Binding == nil || *a.Binding != tt.wantBinding {
				t.Errorf("group/binding = %v/%v, want %d/%d", a.Group, a.Binding, tt.wantGroup, tt.wantBinding)
			}
		})
	}
}

func TestFindBinding(t *testing.T) {
	one, two, zero := 1, 2, 0
	decls := []Annotation{
		{Type: AnnotationTypeBindingGroup, Args: []AnnotationArg{annotationArgStorageTypeUniform, "u", AnnotationArgHover}, Group: &zero, Binding: &zero},
		{Type: AnnotationTypeProvider, Args: []AnnotationArg{AnnotationArgSlide, AnnotationArgSlideTexture}, Group: &one, Binding: &zero},
		{Type: AnnotationTypeProvider, Args: []AnnotationArg{AnnotationArgSlide, AnnotationArgSlideSampler}, Group: &one, Binding: &two},
		{Type: annotationTypeInclude, Args: []AnnotationArg{AnnotationArgPlane}},
	}

	tests := []struct {
		name        string
		args        []AnnotationArg
		wantGroup   int
		wantBinding int
		wantOK      bool
	}{
		{"hover uniforms", []AnnotationArg{AnnotationArgHover}, 0, 0, true},
		{"slide texture", []AnnotationArg{AnnotationArgSlide, AnnotationArgSlideTexture}, 1, 0, true},
		{"slide sampler", []AnnotationArg{AnnotationArgSlide, AnnotationArgSlideSampler}, 1, 2, true},
		{"first slide binding", []AnnotationArg{AnnotationArgSlide}, 1, 0, true},
		{"include is not a binding", []AnnotationArg{AnnotationArgPlane}, 0, 0, false},
		{"no match", []AnnotationArg{AnnotationArgHover, AnnotationArgSlide}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, b, ok := FindBinding(decls, tt.args...)
			if ok != tt.wantOK || g != tt.wantGroup || b != tt.wantBinding {
				t.Errorf("FindBinding(%v) = %d, %d, %v, want %d, %d, %v", tt.args, g, b, ok, tt.wantGroup, tt.wantBinding, tt.wantOK)
			}
		})
	}
}
