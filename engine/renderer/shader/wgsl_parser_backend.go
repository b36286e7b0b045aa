package shader

import (
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// fieldLayout is the byte size and alignment of a WGSL type inside a uniform buffer.
type fieldLayout struct {
	size  uint64
	align uint64
}

// parsedField is one member of a WGSL struct.
type parsedField struct {
	name      string
	typeName  string
	location  int // -1 without @location
	isBuiltin bool
}

// parsedStruct is a WGSL struct declaration.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// uniformLayouts holds the host-shareable scalar and f32 vector types a uniform block may use.
// Arrays and nested structs are not supported.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var uniformLayouts = map[string]fieldLayout{
	"f32":       {4, 4},
	"i32":       {4, 4},
	"u32":       {4, 4},
	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},
}

func alignTo(align, value uint64) uint64 {
	return (value + align - 1) &^ (align - 1)
}

// uniformStructSize lays out a struct's members in order and rounds the total up to the largest
// member alignment. Builtin members are not part of the buffer.
//
// Parameters:
//   - ps: the struct to lay out
//
// Returns:
//   - uint64: the struct size in bytes
//   - bool: false if a member type is not in uniformLayouts
func uniformStructSize(ps parsedStruct) (uint64, bool) {
	var offset uint64
	maxAlign := uint64(1)
	for _, f := range ps.fields {
		if f.isBuiltin {
			continue
		}
		l, ok := uniformLayouts[f.typeName]
		if !ok {
			return 0, false
		}
		offset = alignTo(l.align, offset) + l.size
		maxAlign = max(maxAlign, l.align)
	}
	return alignTo(maxAlign, offset), true
}

// uniformStructSizes maps each struct that can back a uniform binding to its size.
func uniformStructSizes(structs []parsedStruct) map[string]uint64 {
	sizes := make(map[string]uint64, len(structs))
	for _, ps := range structs {
		if size, ok := uniformStructSize(ps); ok {
			sizes[ps.name] = size
		}
	}
	return sizes
}

// classifyResource creates a wgpu.BindGroupLayoutEntry from a parsed WGSL resource declaration.
// Buffers are recognised by their address space qualifier. Handle types are either a filtering
// sampler or a sampled texture.
//
// Parameters:
//   - binding: the binding index from @binding(N)
//   - visibility: the shader stage visibility flag
//   - addressSpace: the address space qualifier (e.g. "uniform", "storage, read_write"), empty for handle types
//   - typeName: the WGSL type string (e.g. "HoverUniforms", "texture_2d<f32>", "sampler")
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: a fully populated layout entry for the resource
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}

	if addressSpace != "" {
		switch {
		case addressSpace == "uniform":
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		case strings.HasPrefix(addressSpace, "storage"):
			if strings.Contains(addressSpace, "read_write") {
				entry.Buffer.Type = wgpu.BufferBindingTypeStorage
			} else {
				entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
			}
		}
		return entry
	}

	switch {
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case strings.HasPrefix(typeName, "texture_"):
		classifySampledTexture(typeName, &entry)
	}

	return entry
}

// classifySampledTexture fills the texture layout of entry from a sampled texture type such as
// "texture_2d<f32>". Only 2D float textures are bound by the plane shaders.
func classifySampledTexture(typeName string, entry *wgpu.BindGroupLayoutEntry) {
	base, param := splitTypeParams(typeName)
	switch base {
	case "texture_2d":
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	case "texture_multisampled_2d":
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		entry.Texture.Multisampled = true
	}
	if param == "f32" {
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
	}
}

// splitTypeParams splits "texture_2d<f32>" into ("texture_2d", "f32"). A type without parameters
// is returned whole with an empty parameter.
func splitTypeParams(typeName string) (base, param string) {
	base, rest, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return base, strings.TrimSpace(strings.TrimSuffix(rest, ">"))
}

// stripComments removes line comments and nested block comments from WGSL source. Newlines are
// kept so line-oriented parsing still sees the same lines.
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	for line := range strings.Lines(source) {
		code, _, found := strings.Cut(line, "//")
		sb.WriteString(code)
		if found && strings.HasSuffix(line, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch source[i : i+2] {
			case "/*":
				depth++
				i++
				continue
			case "*/":
				depth = max(depth-1, 0)
				i++
				continue
			}
		}
		if depth == 0 || source[i] == '\n' {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// isVertexInputStruct reports whether ps is fed from a vertex buffer: it has a @location member
// and no @builtin member, which would make it a stage output.
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		hasLocation = hasLocation || f.location >= 0
	}
	return hasLocation
}

// buildVertexBufferLayout packs the members of a vertex input struct tightly in declaration order.
//
// Parameters:
//   - ps: the vertex input struct
//
// Returns:
//   - wgpu.VertexBufferLayout: one per-vertex buffer layout
//   - bool: false if a member type is not in vertexFormats
func buildVertexBufferLayout(ps parsedStruct) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(ps.fields))
	var offset uint64
	for _, f := range ps.fields {
		vf, ok := vertexFormats[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         vf.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += vf.size
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, true
}
