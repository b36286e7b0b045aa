package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-hover/engine/profiler"
	"github.com/Carmen-Shannon/oxy-hover/engine/renderer"
	"github.com/Carmen-Shannon/oxy-hover/engine/tween"
	"github.com/Carmen-Shannon/oxy-hover/engine/window"
	"go.uber.org/zap"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets the window the engine pumps messages for. Required.
//
// Parameters:
//   - w: a spawned Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer frames are drawn with. Required. The engine releases it on shutdown.
//
// Parameters:
//   - r: a Renderer presenting into the engine's window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithTweener sets the tweener ticked each frame. A new one is created when omitted.
//
// Parameters:
//   - t: the shared tweener
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTweener(t tween.Tweener) EngineBuilderOption {
	return func(e *engine) {
		e.tweener = t
	}
}

// WithProfiling enables or disables frame statistics output.
//
// Parameters:
//   - enabled: if true, enables profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithAnimatingCounter sets the function the profiler samples each frame for the number of
// animating controllers.
func WithAnimatingCounter(fn func() int) EngineBuilderOption {
	return func(e *engine) {
		e.animating = fn
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		if l != nil {
			e.log = l
		}
	}
}
