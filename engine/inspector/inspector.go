// Package inspector is the keyboard-driven debug panel of the gallery. It observes and tweaks one
// hover target at a time through the target's public operations only.
//
// Keys:
//
//	Tab, 1-9      select the target
//	M             toggle manual control of the target's progress
//	Left, Right   scrub the progress while manual control is on
//	I A Z R N S G select intensity, angle, zoom, rotation, noise speed, noise scale or rgb shift
//	D F           select the enter or exit duration
//	E O           select the enter or exit ease
//	Up, Down      nudge the selected parameter
//	P             log the target's configuration
package inspector

import (
	"github.com/Carmen-Shannon/oxy-hover/common"
	"github.com/Carmen-Shannon/oxy-hover/engine/hover"
	"github.com/Carmen-Shannon/oxy-hover/engine/logging"
	"go.uber.org/zap"
)

// ScrubStep is the progress change of one Left or Right key press.
const ScrubStep = 0.01

// Target is the part of a hover controller the inspector drives.
type Target interface {
	ID() int
	Reconfigure(u hover.ParameterUpdate) error
	SetProgress(p float64)
	SetEnabled(enabled bool)
	SetHighlight(on bool)
	Config() hover.Parameters
}

var _ Target = hover.Controller(nil)

// inspector is the implementation of the Inspector interface.
type inspector struct {
	targets  []Target
	selected int
	manual   bool
	progress float64
	param    Param
	log      *zap.Logger
}

// Inspector maps key presses to target selection, manual progress control and parameter edits.
// All methods must be called from the frame loop goroutine.
type Inspector interface {
	// HandleKey applies one key press.
	//
	// Parameters:
	//   - key: the key code, see common.Key*
	//
	// Returns:
	//   - bool: true if the key is bound
	HandleKey(key uint32) bool

	// Select makes the target at index i the current one. Out of range indices are ignored.
	//
	// Parameters:
	//   - i: the target index
	Select(i int)

	// Selected returns the index of the current target.
	Selected() int

	// Manual reports whether manual progress control is on.
	Manual() bool

	// Progress returns the scrub progress applied while manual control is on.
	Progress() float64

	// Param returns the parameter the Up and Down keys nudge.
	Param() Param

	// Close hands the current target back to pointer control and clears its highlight.
	Close()
}

var _ Inspector = &inspector{}

// NewInspector creates an Inspector over targets and highlights the first one.
//
// Parameters:
//   - targets: the controllers to inspect, in selection order
//   - options: variadic list of InspectorBuilderOption functions
//
// Returns:
//   - Inspector: the inspector
func NewInspector(targets []Target, options ...InspectorBuilderOption) Inspector {
	in := &inspector{
		targets: targets,
		param:   ParamIntensity,
		log:     logging.Named("inspector"),
	}
	for _, opt := range options {
		if opt == nil {
			panic("inspector: nil option")
		}
		opt(in)
	}

	if t := in.target(); t != nil {
		t.SetHighlight(true)
		in.log.Info("inspecting", zap.Int("target", t.ID()), zap.Int("targets", len(targets)))
	}
	return in
}

func (in *inspector) target() Target {
	if in.selected < 0 || in.selected >= len(in.targets) {
		return nil
	}
	return in.targets[in.selected]
}

func (in *inspector) HandleKey(key uint32) bool {
	if len(in.targets) == 0 {
		return false
	}
	switch {
	case key == common.KeyTab:
		in.Select((in.selected + 1) % len(in.targets))
	case key >= common.Key1 && key <= common.Key9:
		in.Select(int(key - common.Key1))
	case key == common.KeyM:
		in.setManual(!in.manual)
	case key == common.KeyLeft:
		in.scrub(-ScrubStep)
	case key == common.KeyRight:
		in.scrub(ScrubStep)
	case key == common.KeyUp:
		in.nudge(1)
	case key == common.KeyDown:
		in.nudge(-1)
	case key == common.KeyP:
		in.logConfig()
	default:
		p, ok := paramForKey(key)
		if !ok {
			return false
		}
		in.param = p
		in.log.Info("parameter selected", zap.Int("target", in.target().ID()), zap.Stringer("param", p))
	}
	return true
}

func (in *inspector) Select(i int) {
	if i < 0 || i >= len(in.targets) || i == in.selected {
		return
	}
	prev := in.target()
	prev.SetHighlight(false)
	if in.manual {
		prev.SetEnabled(true)
		prev.SetProgress(0)
	}

	in.selected = i
	in.progress = 0
	next := in.target()
	next.SetHighlight(true)
	if in.manual {
		next.SetEnabled(false)
		next.SetProgress(0)
	}
	in.log.Info("target selected", zap.Int("target", next.ID()), zap.Bool("manual", in.manual))
}

func (in *inspector) Selected() int {
	return in.selected
}

func (in *inspector) Manual() bool {
	return in.manual
}

func (in *inspector) Progress() float64 {
	return in.progress
}

func (in *inspector) Param() Param {
	return in.param
}

func (in *inspector) Close() {
	t := in.target()
	if t == nil {
		return
	}
	if in.manual {
		in.setManual(false)
	}
	t.SetHighlight(false)
}

// setManual switches the target between pointer control and scrubbed progress.
func (in *inspector) setManual(on bool) {
	t := in.target()
	in.manual = on
	if on {
		t.SetEnabled(false)
		t.SetProgress(in.progress)
	} else {
		t.SetEnabled(true)
		t.SetProgress(0)
		in.progress = 0
	}
	in.log.Info("manual control", zap.Int("target", t.ID()), zap.Bool("on", on), zap.Float64("progress", in.progress))
}

func (in *inspector) scrub(delta float64) {
	if !in.manual {
		return
	}
	p := common.Clamp(in.progress+delta, 0, 1)
	// snap to the step grid so a full sweep lands exactly on 0 and 1
	p = float64(int64(p/ScrubStep+0.5)) * ScrubStep
	in.progress = common.Clamp(p, 0, 1)
	t := in.target()
	t.SetProgress(in.progress)
	in.log.Info("progress", zap.Int("target", t.ID()), zap.Float64("progress", in.progress))
}

func (in *inspector) nudge(dir int) {
	t := in.target()
	s := specs[in.param]
	if s.timing && in.manual {
		in.log.Warn("timing is locked while manual control is on",
			zap.Int("target", t.ID()), zap.Stringer("param", in.param))
		return
	}

	cfg := t.Config()
	var u hover.ParameterUpdate
	switch in.param {
	case ParamEaseIn:
		u.EaseIn = hover.Ptr(cycleEase(cfg.EaseIn, dir))
	case ParamEaseOut:
		u.EaseOut = hover.Ptr(cycleEase(cfg.EaseOut, dir))
	default:
		u = s.set(s.nudge(s.get(cfg), dir))
	}

	if err := t.Reconfigure(u); err != nil {
		in.log.Warn("reconfigure failed", zap.Int("target", t.ID()), zap.Stringer("param", in.param), zap.Error(err))
		return
	}
	in.logChange(t, in.param, u)
}

func (in *inspector) logChange(t Target, p Param, u hover.ParameterUpdate) {
	fields := []zap.Field{zap.Int("target", t.ID()), zap.Stringer("param", p)}
	switch {
	case u.EaseIn != nil:
		fields = append(fields, zap.String("value", *u.EaseIn))
	case u.EaseOut != nil:
		fields = append(fields, zap.String("value", *u.EaseOut))
	default:
		fields = append(fields, zap.Float64("value", specs[p].get(t.Config())))
	}
	in.log.Info("parameter changed", fields...)
}

func (in *inspector) logConfig() {
	t := in.target()
	c := t.Config()
	in.log.Info("config",
		zap.Int("target", t.ID()),
		zap.Float64("durationIn", c.DurationIn),
		zap.Float64("durationOut", c.DurationOut),
		zap.String("easeIn", c.EaseIn),
		zap.String("easeOut", c.EaseOut),
		zap.Float64("intensity", c.Intensity),
		zap.Float64("displacementAngle", c.DisplacementAngle),
		zap.Float64("zoom", c.Zoom),
		zap.Float64("imageRotation", c.ImageRotation),
		zap.Float64("noiseSpeed", c.NoiseSpeed),
		zap.Float64("noiseScale", c.NoiseScale),
		zap.Float64("rgbShiftIntensity", c.RGBShiftIntensity),
	)
}
