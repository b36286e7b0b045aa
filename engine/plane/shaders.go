package plane

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/shader"
)

//go:embed assets/shaders/hover-vert.wgsl
var hoverVertexSource string

//go:embed assets/shaders/hover-frag.wgsl
var hoverFragmentSource string

//go:embed assets/shaders/static-frag.wgsl
var staticFragmentSource string

const (
	// HoverPipelineKey identifies the distortion pipeline.
	HoverPipelineKey = "plane.hover"

	// StaticPipelineKey identifies the fallback pipeline: a plain cover-fit image.
	StaticPipelineKey = "plane.static"
)

// NewHoverPipeline builds the distortion pipeline from the embedded WGSL sources.
//
// Returns:
//   - pipeline.Pipeline: the pipeline, not yet registered with a renderer
//   - error: an error if either shader fails to parse
func NewHoverPipeline() (pipeline.Pipeline, error) {
	return newPipeline(HoverPipelineKey, hoverVertexSource, hoverFragmentSource)
}

// NewStaticPipeline builds the fallback pipeline. It shares the hover vertex stage, which is flat
// while progress is zero.
//
// Returns:
//   - pipeline.Pipeline: the pipeline, not yet registered with a renderer
//   - error: an error if either shader fails to parse
func NewStaticPipeline() (pipeline.Pipeline, error) {
	return newPipeline(StaticPipelineKey, hoverVertexSource, staticFragmentSource)
}

func newPipeline(key, vertexSource, fragmentSource string) (pipeline.Pipeline, error) {
	vs, err := shader.NewShader(key+".vert", shader.ShaderTypeVertex, vertexSource)
	if err != nil {
		return nil, fmt.Errorf("plane: %s vertex shader: %w", key, err)
	}
	fs, err := shader.NewShader(key+".frag", shader.ShaderTypeFragment, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("plane: %s fragment shader: %w", key, err)
	}
	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	), nil
}
