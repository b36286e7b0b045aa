package gallery

import (
	"time"

	"github.com/Carmen-Shannon/oxy-hover/engine/capability"
	"github.com/Carmen-Shannon/oxy-hover/engine/config"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer/pipeline"
	"go.uber.org/zap"
)

// GalleryBuilderOption is a functional option applied to a gallery during construction via New.
type GalleryBuilderOption func(*gallery)

// WithHost sets the engine the gallery registers its planes and hooks with. Required.
//
// Parameters:
//   - h: the host, normally the engine.Engine
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithHost(h Host) GalleryBuilderOption {
	return func(g *gallery) {
		g.host = h
	}
}

// WithManifest sets an already loaded manifest.
//
// Parameters:
//   - m: the manifest
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithManifest(m *config.Manifest) GalleryBuilderOption {
	return func(g *gallery) {
		g.manifest = m
	}
}

// WithManifestPath sets the manifest file New loads. Ignored when WithManifest is also given.
func WithManifestPath(path string) GalleryBuilderOption {
	return func(g *gallery) {
		g.manifestPath = path
	}
}

// WithPipelines sets the pipelines slides are drawn with. Both are required and must already be
// registered with the renderer.
//
// Parameters:
//   - hoverPipeline: the distortion pipeline
//   - staticPipeline: the fallback pipeline
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithPipelines(hoverPipeline, staticPipeline pipeline.Pipeline) GalleryBuilderOption {
	return func(g *gallery) {
		g.hoverPipeline = hoverPipeline
		g.staticPipeline = staticPipeline
	}
}

// WithViewport sets the framebuffer size the slides are first laid out in.
//
// Parameters:
//   - width, height: the framebuffer size in pixels, ignored unless both are positive
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithViewport(width, height int) GalleryBuilderOption {
	return func(g *gallery) {
		if width > 0 && height > 0 {
			g.viewW = float64(width)
			g.viewH = float64(height)
		}
	}
}

// WithSignals replaces the probed host signals the capability gate decides on.
func WithSignals(s capability.Signals) GalleryBuilderOption {
	return func(g *gallery) {
		g.signals = &s
	}
}

// WithDebug forces debug mode on, in addition to the manifest's debug attribute.
func WithDebug(debug bool) GalleryBuilderOption {
	return func(g *gallery) {
		g.debug = debug
	}
}

// WithMaxTextureDimension caps the decoded image size, normally at the device limit.
//
// Parameters:
//   - px: the largest texture side in pixels, 0 for no cap
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithMaxTextureDimension(px int) GalleryBuilderOption {
	return func(g *gallery) {
		g.maxTexture = max(px, 0)
	}
}

// WithWorkers sets how many images are decoded concurrently.
func WithWorkers(n int) GalleryBuilderOption {
	return func(g *gallery) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithDebounce overrides ResizeDebounce.
func WithDebounce(d time.Duration) GalleryBuilderOption {
	return func(g *gallery) {
		g.debounce = max(d, 0)
	}
}

// WithGap sets the spacing of auto-placed slides.
func WithGap(px float64) GalleryBuilderOption {
	return func(g *gallery) {
		g.gap = max(px, 0)
	}
}

// WithLogger sets the gallery's logger.
func WithLogger(l *zap.Logger) GalleryBuilderOption {
	return func(g *gallery) {
		if l != nil {
			g.log = l
		}
	}
}
