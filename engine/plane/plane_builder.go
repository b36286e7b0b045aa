package plane

import (
	"github.com/Carmen-Shannon/oxy-hover/common"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-hover/engine/uniform"
	"go.uber.org/zap"
)

// PlaneBuilderOption is a functional option applied to a plane during construction via NewPlane.
type PlaneBuilderOption func(*plane)

// WithPipeline sets the pipeline the plane is drawn with. Required.
//
// Parameters:
//   - p: the hover or static pipeline
//
// Returns:
//   - PlaneBuilderOption: option function to apply
func WithPipeline(p pipeline.Pipeline) PlaneBuilderOption {
	return func(pl *plane) {
		pl.pipeline = p
	}
}

// WithLayout sets the plane's placement and the framebuffer size it is placed in.
//
// Parameters:
//   - rect: the placement in window pixels
//   - viewW, viewH: the framebuffer size in pixels
//
// Returns:
//   - PlaneBuilderOption: option function to apply
func WithLayout(rect Rect, viewW, viewH float64) PlaneBuilderOption {
	return func(pl *plane) {
		pl.rect = rect
		pl.viewW = viewW
		pl.viewH = viewH
	}
}

// WithTexture sets the decoded slide image.
//
// Parameters:
//   - t: RGBA pixels and their size
//
// Returns:
//   - PlaneBuilderOption: option function to apply
func WithTexture(t common.TextureStagingData) PlaneBuilderOption {
	return func(pl *plane) {
		pl.texture = t
	}
}

// WithSampler overrides the default clamp-to-edge linear sampler.
func WithSampler(s common.SamplerStagingData) PlaneBuilderOption {
	return func(pl *plane) {
		pl.sampler = s
	}
}

// WithDeclarations sets the uniform declarations the plane checks against the shader, and the
// initial uniform values.
//
// Parameters:
//   - b: the initial uniform state
//   - decls: the declaration list, normally uniform.Declarations(b)
//
// Returns:
//   - PlaneBuilderOption: option function to apply
func WithDeclarations(b uniform.Block, decls []uniform.Declaration) PlaneBuilderOption {
	return func(pl *plane) {
		pl.block = b
		pl.decls = decls
	}
}

// WithOutlineWidth sets the debug outline width in pixels.
func WithOutlineWidth(px float32) PlaneBuilderOption {
	return func(pl *plane) {
		pl.outline = px
	}
}

// WithLogger sets the plane's logger.
func WithLogger(l *zap.Logger) PlaneBuilderOption {
	return func(pl *plane) {
		if l != nil {
			pl.log = l
		}
	}
}
