package plane

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-hover/engine/uniform"
)

// UniformStruct is the WGSL struct the hover uniforms are declared in.
const UniformStruct = "HoverUniforms"

// ErrDeclarationMismatch is returned when a shader's uniform struct does not declare the uniforms a
// plane is given.
var ErrDeclarationMismatch = errors.New("plane: uniform declarations do not match shader")

// ValidateDeclarations checks every declaration against the shader's uniform struct. Each declaration
// needs a member of the same name and type. Struct members that are not declared must be padding.
//
// Parameters:
//   - decls: the declarations the plane is constructed with
//   - fields: the members of the shader's uniform struct
//
// Returns:
//   - error: nil, or an error wrapping ErrDeclarationMismatch naming every problem
func ValidateDeclarations(decls []uniform.Declaration, fields []shader.StructField) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: shader has no %s struct", ErrDeclarationMismatch, UniformStruct)
	}

	byName := make(map[string]string, len(fields))
	for _, f := range fields {
		byName[f.Name] = f.Type
	}

	var problems []string
	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.Name] = true
		typ, ok := byName[d.Name]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s is not in %s", d.Name, UniformStruct))
		case typ != string(d.Kind):
			problems = append(problems, fmt.Sprintf("%s is %s in the shader, declared %s", d.Name, typ, d.Kind))
		}
	}
	for _, f := range fields {
		if !declared[f.Name] && !strings.HasPrefix(f.Name, "pad") {
			problems = append(problems, fmt.Sprintf("%s is not declared", f.Name))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrDeclarationMismatch, strings.Join(problems, "; "))
	}
	return nil
}
