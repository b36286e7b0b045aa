// Package hover implements the hover transition state machine.
//
// A Controller owns one ParameterSet and one uniform.Block. Pointer enter and leave start eased
// transitions of progress, zoom, rotation and rgb shift through a tween.Tweener; a manual progress
// override sets the same four values linearly. The block is mirrored into the bound Surface every
// frame, and the time accumulator only advances while the controller is not idle.
package hover

import (
	"math"

	"github.com/Carmen-Shannon/oxy-hover/common"
	"github.com/Carmen-Shannon/oxy-hover/engine/tween"
	"github.com/Carmen-Shannon/oxy-hover/engine/uniform"
	"go.uber.org/zap"
)

// DefaultTimeStep is the amount added to the time uniform per animated frame.
const DefaultTimeStep float32 = 0.01

// controller is the implementation of the Controller interface.
type controller struct {
	id       int
	surface  Surface
	params   *ParameterSet
	tweens   tween.Tweener
	block    uniform.Block
	state    State
	timeStep float32
	log      *zap.Logger

	enabled  bool
	ready    bool
	bound    bool
	inert    bool
	disposed bool
}

// Controller drives one Surface through the hover transitions.
// All methods must be called from the frame loop goroutine.
type Controller interface {
	// ID returns the identifier given at construction, used in logs and by the inspector.
	//
	// Returns:
	//   - int: the controller identifier
	ID() int

	// PointerEnter starts the enter transition. Ignored while disabled, before the surface is
	// ready, or after Destroy.
	PointerEnter()

	// PointerOut starts the exit transition from Entering or Active. Ignored while idle or
	// disabled, before the surface is ready, or after Destroy.
	PointerOut()

	// SetProgress bypasses the tweens and sets progress, zoom, rotation and rgb shift as linear
	// functions of p. The controller becomes active when p > 0 and idle when p == 0.
	//
	// Parameters:
	//   - p: the progress, clamped to [0, 1]
	SetProgress(p float64)

	// SetEnabled gates pointer handling. Disabling cancels any transition, returns the uniforms
	// to rest immediately and detaches the pointer handlers.
	//
	// Parameters:
	//   - enabled: false to ignore pointer events
	SetEnabled(enabled bool)

	// Enabled reports whether pointer events are handled.
	//
	// Returns:
	//   - bool: the enable gate
	Enabled() bool

	// Reconfigure applies a partial parameter update. The displacement vector and noise
	// uniforms are pushed to the surface immediately. Unresolvable easing identifiers keep their
	// previous curve and are reported in the returned error.
	//
	// Parameters:
	//   - u: the fields to change
	//
	// Returns:
	//   - error: the problems with the update, or nil
	Reconfigure(u ParameterUpdate) error

	// Config returns the current configuration with rotation in degrees.
	//
	// Returns:
	//   - Parameters: the current configuration
	Config() Parameters

	// Resize updates the resolution uniform.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	Resize(width, height float64)

	// SetMouse updates the pointer position uniform.
	//
	// Parameters:
	//   - x, y: the pointer position inside the surface, normalized to [0, 1]
	SetMouse(x, y float64)

	// SetHighlight toggles the surface's debug outline.
	//
	// Parameters:
	//   - on: true to draw the outline
	SetHighlight(on bool)

	// State returns the current transition phase.
	//
	// Returns:
	//   - State: the phase
	State() State

	// Uniforms returns a copy of the live uniform state.
	//
	// Returns:
	//   - uniform.Block: the uniform values
	Uniforms() uniform.Block

	// Inert reports whether the surface failed to initialize, making every operation a no-op.
	//
	// Returns:
	//   - bool: true if the controller does nothing
	Inert() bool

	// Destroy cancels all transitions, detaches the pointer handlers and removes the surface.
	// Every later call on the controller is a no-op. Calling Destroy again is safe.
	Destroy()

	// Destroyed reports whether Destroy has been called.
	//
	// Returns:
	//   - bool: true after Destroy
	Destroyed() bool
}

var _ Controller = &controller{}

func (c *controller) ID() int {
	return c.id
}

func (c *controller) PointerEnter() {
	if !c.interactive() {
		return
	}
	c.state = StateEntering
	opts := tween.Options{Duration: c.params.durationIn, Ease: c.params.easeIn}
	c.animate(1, opts, c.entered)
	c.log.Debug("pointer enter", zap.Int("id", c.id))
}

func (c *controller) PointerOut() {
	if !c.interactive() || c.state == StateIdle {
		return
	}
	c.state = StateExiting
	opts := tween.Options{Duration: c.params.durationOut, Ease: c.params.easeOut}
	c.animate(0, opts, c.exited)
	c.log.Debug("pointer out", zap.Int("id", c.id))
}

func (c *controller) SetProgress(p float64) {
	if !c.live() || math.IsNaN(p) {
		return
	}
	p = common.Clamp(p, 0, 1)
	c.killTweens()
	c.applyLinear(float32(p))
	if p > 0 {
		c.state = StateActive
	} else {
		c.state = StateIdle
	}
	c.mirror()
}

func (c *controller) SetEnabled(enabled bool) {
	if !c.live() || c.enabled == enabled {
		return
	}
	c.enabled = enabled
	if enabled {
		c.bind()
		return
	}
	c.unbind()
	c.killTweens()
	c.applyLinear(0)
	c.state = StateIdle
	c.mirror()
}

func (c *controller) Enabled() bool {
	return c.enabled
}

func (c *controller) Reconfigure(u ParameterUpdate) error {
	if !c.live() {
		return nil
	}
	changed, err := c.params.Apply(u)
	c.block.Displacement = c.params.Displacement().Float32()
	c.block.NoiseSpeed = float32(c.params.noiseSpeed)
	c.block.NoiseScale = float32(c.params.noiseScale)
	c.mirror()
	if err != nil {
		c.log.Warn("reconfigure kept previous values", zap.Int("id", c.id), zap.Error(err))
	}
	if changed {
		c.log.Debug("displacement changed", zap.Int("id", c.id),
			zap.Float32("x", c.block.Displacement[0]), zap.Float32("y", c.block.Displacement[1]))
	}
	return err
}

func (c *controller) Config() Parameters {
	return c.params.Parameters()
}

func (c *controller) Resize(width, height float64) {
	if !c.live() {
		return
	}
	c.block.Resolution = [2]float32{float32(width), float32(height)}
	c.mirror()
}

func (c *controller) SetMouse(x, y float64) {
	if !c.live() {
		return
	}
	c.block.MousePos = [2]float32{float32(x), float32(y)}
}

func (c *controller) SetHighlight(on bool) {
	if !c.live() {
		return
	}
	c.surface.SetHighlight(on)
}

func (c *controller) State() State {
	return c.state
}

func (c *controller) Uniforms() uniform.Block {
	return c.block
}

func (c *controller) Inert() bool {
	return c.inert
}

func (c *controller) Destroy() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.killTweens()
	c.state = StateIdle
	if c.surface != nil {
		c.unbind()
		c.surface.Remove()
	}
	c.log.Debug("destroyed", zap.Int("id", c.id))
}

func (c *controller) Destroyed() bool {
	return c.disposed
}

// live reports whether public operations should take effect.
func (c *controller) live() bool {
	return !c.inert && !c.disposed
}

// interactive reports whether pointer transitions may start.
func (c *controller) interactive() bool {
	return c.live() && c.ready && c.enabled
}

// animate starts the four driven uniforms toward the values at progress p. Only the progress
// tween carries the completion callback so the phase changes exactly once per transition.
func (c *controller) animate(p float32, opts tween.Options, done func()) {
	zoom, rotation, shift := c.drivenAt(p)
	c.tweens.To(&c.block.Progress, p, tween.Options{Duration: opts.Duration, Ease: opts.Ease, OnComplete: done})
	c.tweens.To(&c.block.Zoom, zoom, opts)
	c.tweens.To(&c.block.Rotation, rotation, opts)
	c.tweens.To(&c.block.RGBShift, shift, opts)
}

// drivenAt returns zoom, rotation and rgb shift for progress p.
func (c *controller) drivenAt(p float32) (float32, float32, float32) {
	zoom := 1 + float32(c.params.zoom)*p
	rotation := float32(c.params.rotation) * p
	shift := float32(c.params.rgbShift) * p
	return zoom, rotation, shift
}

func (c *controller) applyLinear(p float32) {
	c.block.Progress = p
	c.block.Zoom, c.block.Rotation, c.block.RGBShift = c.drivenAt(p)
}

func (c *controller) killTweens() {
	c.tweens.Kill(&c.block.Progress, &c.block.Zoom, &c.block.Rotation, &c.block.RGBShift)
}

func (c *controller) entered() {
	if c.disposed || c.state != StateEntering {
		return
	}
	c.state = StateActive
}

func (c *controller) exited() {
	if c.disposed || c.state != StateExiting {
		return
	}
	c.state = StateIdle
}

// handleReady runs once the surface's GPU resources exist.
func (c *controller) handleReady() {
	if !c.live() || c.ready {
		return
	}
	c.ready = true
	c.surface.OnRender(c.handleRender)
	if c.enabled {
		c.bind()
	}
	c.mirror()
	c.log.Debug("surface ready", zap.Int("id", c.id))
}

// handleRender advances the time accumulator while animating and mirrors the block.
func (c *controller) handleRender() {
	if !c.live() {
		return
	}
	if c.state.Animating() {
		c.block.Time += c.timeStep
	}
	c.mirror()
}

func (c *controller) bind() {
	if !c.ready || c.bound {
		return
	}
	c.surface.BindPointer(c.PointerEnter, c.PointerOut)
	c.bound = true
}

func (c *controller) unbind() {
	if !c.bound {
		return
	}
	c.surface.UnbindPointer()
	c.bound = false
}

func (c *controller) mirror() {
	if !c.ready || !c.live() {
		return
	}
	c.surface.Mirror(c.block)
}
