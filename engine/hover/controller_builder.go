package hover

import (
	"github.com/Carmen-Shannon/oxy-hover/engine/logging"
	"github.com/Carmen-Shannon/oxy-hover/engine/tween"
	"github.com/Carmen-Shannon/oxy-hover/engine/uniform"
	"go.uber.org/zap"
)

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(*controller)

// WithID sets the identifier used in logs.
//
// Parameters:
//   - id: the controller identifier
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithID(id int) ControllerBuilderOption {
	return func(c *controller) {
		c.id = id
	}
}

// WithSurface binds the controller to a surface. Required.
//
// Parameters:
//   - s: the surface to drive
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithSurface(s Surface) ControllerBuilderOption {
	return func(c *controller) {
		c.surface = s
	}
}

// WithParameters sets the resolved parameter set. Required.
//
// Parameters:
//   - ps: the parameter set the controller will own
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithParameters(ps *ParameterSet) ControllerBuilderOption {
	return func(c *controller) {
		c.params = ps
	}
}

// WithTweener sets the tweener that runs the transitions. Required; the owner of the tweener
// is responsible for ticking it from the frame loop.
//
// Parameters:
//   - t: the tweener
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithTweener(t tween.Tweener) ControllerBuilderOption {
	return func(c *controller) {
		c.tweens = t
	}
}

// WithResolution sets the initial resolution uniform.
//
// Parameters:
//   - width, height: the framebuffer size in pixels
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithResolution(width, height float64) ControllerBuilderOption {
	return func(c *controller) {
		c.block.Resolution = [2]float32{float32(width), float32(height)}
	}
}

// WithTimeStep overrides the per-frame time increment. Values <= 0 keep DefaultTimeStep.
//
// Parameters:
//   - step: the time added per animated frame
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithTimeStep(step float32) ControllerBuilderOption {
	return func(c *controller) {
		if step > 0 {
			c.timeStep = step
		}
	}
}

// WithLogger sets the logger. Defaults to the engine logger named "hover".
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithLogger(l *zap.Logger) ControllerBuilderOption {
	return func(c *controller) {
		if l != nil {
			c.log = l
		}
	}
}

// NewController creates a Controller with the provided options applied.
// The controller starts enabled and idle and waits for the surface's ready notification before
// it binds pointer handlers or hooks into rendering. If the surface is missing or invalid the
// controller is inert: it logs a warning and every operation becomes a no-op.
//
// Parameters:
//   - options: variadic list of ControllerBuilderOption functions
//
// Returns:
//   - Controller: the new controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controller{
		enabled:  true,
		timeStep: DefaultTimeStep,
		state:    StateIdle,
	}
	c.block = uniform.Rest()
	c.log = logging.Named("hover")

	for _, option := range options {
		if option == nil {
			panic("hover: nil ControllerBuilderOption")
		}
		option(c)
	}

	if c.params == nil {
		panic("hover: controller requires a ParameterSet via WithParameters")
	}
	if c.tweens == nil {
		panic("hover: controller requires a Tweener via WithTweener")
	}

	c.block.Displacement = c.params.Displacement().Float32()
	c.block.NoiseSpeed = float32(c.params.noiseSpeed)
	c.block.NoiseScale = float32(c.params.noiseScale)
	c.block.Tex1Scale = c.params.CoverScale().Float32()

	if c.surface == nil || !c.surface.Valid() {
		c.inert = true
		c.log.Warn("surface failed to initialize, controller is inert", zap.Int("id", c.id))
		return c
	}
	c.surface.OnReady(c.handleReady)
	return c
}
