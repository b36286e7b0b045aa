// annotations.go defines the annotation types, argument constants and parser for the
// Oxy WGSL shader pre-processor. Annotations are single-line WGSL comments prefixed
// with @oxy: that drive struct injection, bind group declaration and resource provider
// registration. The parsed results are stored as Annotation values and consumed by the
// PreProcessor and the plane to wire GPU resources without hard-coded binding indices.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct definition
	// into the shader at the annotation site. Consumed entirely during pre-processing.
	//
	// Syntax: //@oxy:include <struct_type>
	//
	// Example: //@oxy:include hover
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration
	// and records a declaration carrying the group, binding and struct type.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@oxy:group 0 0 storage_uniform u hover
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider registers a resource provider identity for a group and binding
	// without generating any WGSL output. The binding itself stays hand-written below the
	// annotation. Used for textures and samplers, which have no registered struct.
	//
	// Syntax:
	//   //@oxy:provider <group> <binding> <provider_identity>
	//   //@oxy:provider <group> <binding> <provider_identity> <binding_role>
	//
	// Example: //@oxy:provider 0 2 slide slide_texture
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation represents a single parsed @oxy: annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed (include, group, or provider).
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type key (e.g. "hover")
	//   - group:    [0] = address space, [1] = var name, [2] = struct type key
	//   - provider: [0] = provider identity (e.g. "slide"), [1] = binding role (optional)
	Args []AnnotationArg

	// Line is the 1-based line number in the original WGSL source.
	Line int

	// Group is the @group index for group and provider annotations. Nil for include annotations.
	Group *int

	// Binding is the @binding index for group and provider annotations. Nil for include annotations.
	Binding *int
}

// AnnotationArg is a typed string constant used as an argument in annotations.
type AnnotationArg string

// Struct type arguments. Each maps to a Go GPU type with an embedded .wgsl asset.
const (
	// AnnotationArgHover identifies the HoverUniforms struct.
	// Source: engine/uniform/assets/hover_uniforms.wgsl
	AnnotationArgHover AnnotationArg = "hover"

	// AnnotationArgPlane identifies the PlaneParams struct (extent, highlight, outline width).
	// Source: engine/uniform/assets/plane_params.wgsl
	AnnotationArgPlane AnnotationArg = "plane"

	// annotationArgVertex identifies the VertexInput struct of the plane grid.
	// Source: engine/uniform/assets/plane_vertex.wgsl
	annotationArgVertex AnnotationArg = "vertex"
)

// Address space arguments.
const (
	// annotationArgStorageTypeUniform maps to var<uniform> in WGSL.
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"

	// annotationArgStorageTypeRead maps to var<storage, read> in WGSL.
	annotationArgStorageTypeRead AnnotationArg = "storage_read"
)

// Provider identity arguments.
const (
	// AnnotationArgSlide identifies the slide image provider (texture and sampler).
	AnnotationArgSlide AnnotationArg = "slide"
)

// Binding role arguments, qualifying bindings within a provider group.
const (
	// AnnotationArgSlideTexture identifies the slide image texture binding.
	AnnotationArgSlideTexture AnnotationArg = "slide_texture"

	// AnnotationArgSlideSampler identifies the sampler paired with the slide texture.
	AnnotationArgSlideSampler AnnotationArg = "slide_sampler"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgHover,
	AnnotationArgPlane,
	annotationArgVertex,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
}

var validProviderIdentities = []AnnotationArg{
	AnnotationArgSlide,
}

var validBindingRoles = []AnnotationArg{
	AnnotationArgSlideTexture,
	AnnotationArgSlideSampler,
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch args[0] {
	case string(annotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case string(AnnotationTypeBindingGroup):
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires exactly five arguments (group, binding, address space, var name, struct type)", lineNum)
		}
		groupInt, bindingInt, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[5])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy group annotation", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	case string(AnnotationTypeProvider):
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("line %d: @oxy provider annotation requires three or four arguments (group, binding, provider identity[, binding role])", lineNum)
		}
		groupInt, bindingInt, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @oxy provider annotation", lineNum, args[3])
		}
		providerArgs := []AnnotationArg{AnnotationArg(args[3])}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("line %d: unknown binding role %q in @oxy provider annotation", lineNum, args[4])
			}
			providerArgs = append(providerArgs, AnnotationArg(args[4]))
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    providerArgs,
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}

func parseGroupBinding(group, binding string, lineNum int) (int, int, error) {
	g, err := strconv.Atoi(group)
	if err != nil || g < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q in @oxy annotation", lineNum, group)
	}
	b, err := strconv.Atoi(binding)
	if err != nil || b < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q in @oxy annotation", lineNum, binding)
	}
	return g, b, nil
}

// FindBinding returns the group and binding of the first declaration whose arguments contain
// every one of args.
//
// Parameters:
//   - decls: the declarations to search
//   - args: the arguments to match, e.g. the provider identity and binding role
//
// Returns:
//   - int: the group index
//   - int: the binding index
//   - bool: true if a declaration matched
func FindBinding(decls []Annotation, args ...AnnotationArg) (int, int, bool) {
	for _, d := range decls {
		if d.Group == nil || d.Binding == nil {
			continue
		}
		matched := true
		for _, a := range args {
			if !slices.Contains(d.Args, a) {
				matched = false
				break
			}
		}
		if matched {
			return *d.Group, *d.Binding, true
		}
	}
	return 0, 0, false
}
