package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the render stage a shader is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// String returns the stage name used in logs.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// StructField is one member of a WGSL struct as written in the shader source.
type StructField struct {
	Name string
	Type string
}

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and plane binding.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              map[int][]wgpu.VertexBufferLayout
	structs                    []parsedStruct
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor

	pp PreProcessor
}

// Shader defines the interface for a pre-processed and parsed WGSL shader. It exposes the shader's
// unique key, source code, entry point, bind group layout descriptors, vertex buffer layouts,
// struct members and pre-processor declarations needed for pipeline creation and resource wiring.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the processed WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader with all annotations expanded
	Source() string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor for the group, or an empty descriptor if the shader declares none
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name for a given group and binding index, if it exists.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName retrieves the binding index for a given group and variable name, if it exists.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the variable name within the group
	//
	// Returns:
	//   - int: the binding index associated with the variable name, or -1 if not found
	//   - bool: true if the variable name was found, false otherwise
	BindGroupFromVarName(group int, varName string) (int, bool)

	// VertexLayout retrieves the vertex buffer layout for a specific key.
	//
	// Parameters:
	//   - key: the integer key identifying the vertex layout
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layout associated with the key, or nil if not set
	VertexLayout(key int) []wgpu.VertexBufferLayout

	// VertexLayouts retrieves all vertex buffer layouts associated with this shader.
	//
	// Returns:
	//   - map[int][]wgpu.VertexBufferLayout: a map of keys to their corresponding vertex buffer layouts
	VertexLayouts() map[int][]wgpu.VertexBufferLayout

	// StructFields returns the members of the named WGSL struct in declaration order.
	//
	// Parameters:
	//   - name: the WGSL struct name, e.g. "HoverUniforms"
	//
	// Returns:
	//   - []StructField: the struct members, or nil if the shader does not define the struct
	StructFields(name string) []StructField

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Declarations returns the group and provider annotations parsed from the shader source.
	// The plane uses these to find its uniform, texture and sampler bindings.
	//
	// Returns:
	//   - []Annotation: declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes and parses WGSL source into a Shader.
// Vertex layouts are only parsed for vertex shaders. Bind group layouts are parsed for both stages
// with the visibility of the declaring stage.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage the shader is compiled for
//   - source: the raw WGSL source, usually embedded from an asset file
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if the source is empty, an annotation is malformed, or no entry point exists for the stage
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	if source == "" {
		return nil, fmt.Errorf("shader: %s has no source", key)
	}
	s := &shader{
		key:                        key,
		shaderType:                 shaderType,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
		bindingVarNames:            make(map[int]map[int]string),
		vertexLayouts:              make(map[int][]wgpu.VertexBufferLayout),
		pp:                         NewPreProcessor(),
	}
	if err := s.parseSource(source); err != nil {
		return nil, err
	}
	return s, nil
}

// MustShader is like NewShader but panics on error. Use it for embedded sources that ship with the binary.
func MustShader(key string, shaderType ShaderType, source string) Shader {
	s, err := NewShader(key, shaderType, source)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexLayout(key int) []wgpu.VertexBufferLayout {
	return s.vertexLayouts[key]
}

func (s *shader) VertexLayouts() map[int][]wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	if s.bindingVarNames[group] == nil {
		return -1, false
	}
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) StructFields(name string) []StructField {
	for _, ps := range s.structs {
		if ps.name != name {
			continue
		}
		fields := make([]StructField, 0, len(ps.fields))
		for _, f := range ps.fields {
			fields = append(fields, StructField{Name: f.name, Type: f.typeName})
		}
		return fields
	}
	return nil
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Declarations() []Annotation {
	return s.pp.Declarations()
}

// parseSource runs the pre-processor, builds the shader module descriptor, and extracts the entry point,
// vertex layouts, struct members and bind group layouts from the processed source.
func (s *shader) parseSource(raw string) error {
	var err error
	s.source, err = s.pp.Process(raw)
	if err != nil {
		return fmt.Errorf("shader: failed to pre-process %s: %w", s.key, err)
	}
	s.entryPoint = parseEntryPoint(s.source, s.shaderType)
	if s.entryPoint == "" {
		return fmt.Errorf("shader: %s has no %s entry point", s.key, s.shaderType)
	}
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}

	s.structs = parseStructBlocks(stripComments(s.source))
	if s.shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(s.source)
	}

	visibility := wgpu.ShaderStageFragment
	if s.shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(s.source, visibility)
	return nil
}
