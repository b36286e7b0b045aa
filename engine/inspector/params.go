package inspector

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-hover/common"
	"github.com/Carmen-Shannon/oxy-hover/engine/hover"
	"github.com/Carmen-Shannon/oxy-hover/engine/tween"
)

// Param identifies the parameter the Up and Down keys nudge.
type Param int

const (
	ParamIntensity Param = iota
	ParamAngle
	ParamZoom
	ParamRotation
	ParamNoiseSpeed
	ParamNoiseScale
	ParamRGBShift
	ParamDurationIn
	ParamDurationOut
	ParamEaseIn
	ParamEaseOut
)

// paramSpec is the key, range and step of one numeric parameter.
type paramSpec struct {
	name     string
	key      uint32
	min, max float64
	step     float64
	timing   bool // durations and eases are locked while manual control is on

	get func(hover.Parameters) float64
	set func(float64) hover.ParameterUpdate
}

var specs = map[Param]paramSpec{
	ParamIntensity: {
		name: "intensity", key: common.KeyI, min: 0, max: 2, step: 0.05,
		get: func(p hover.Parameters) float64 { return p.Intensity },
		set: func(v float64) hover.ParameterUpdate { return hover.ParameterUpdate{Intensity: &v} },
	},
	ParamAngle: {
		name: "displacementAngle", key: common.KeyA, min: 0, max: 360, step: 5,
		get: func(p hover.Parameters) float64 { return p.DisplacementAngle },
		set: func(v float64) hover.ParameterUpdate { return hover.ParameterUpdate{DisplacementAngle: &v} },
	},
	ParamZoom: {
		name: "zoom", key: common.KeyZ, min: 0, max: 0.5, step: 0.01,
		get: func(p hover.Parameters) float64 { return p.Zoom },
		set: func(v float64) hover.ParameterUpdate { return hover.ParameterUpdate{Zoom: &v} },
	},
	ParamRotation: {
		name: "imageRotation", key: common.KeyR, min: -45, max: 45, step: 1,
		get: func(p hover.Parameters) float64 { return p.ImageRotation },
		set: func(v float64) hover.ParameterUpdate { return hover.ParameterUpdate{ImageRotation: &v} },
	},
	ParamNoiseSpeed: {
		name: "noiseSpeed", key: common.KeyN, min: 0, max: 2, step: 0.05,
		get: func(p hover.Parameters) float64 { return p.NoiseSpeed },
		set: func(v float64) hover.ParameterUpdate { return hover.ParameterUpdate{NoiseSpeed: &v} },
	},
	ParamNoiseScale: {
		name: "noiseScale", key: common.KeyS, min: 0, max: 20, step: 0.5,
		get: func(p hover.Parameters) float64 { return p.NoiseScale },
		set: func(v float64) hover.ParameterUpdate { return hover.ParameterUpdate{NoiseScale: &v} },
	},
	ParamRGBShift: {
		name: "rgbShiftIntensity", key: common.KeyG, min: 0, max: 1, step: 0.05,
		get: func(p hover.Parameters) float64 { return p.RGBShiftIntensity },
		set: func(v float64) hover.ParameterUpdate { return hover.ParameterUpdate{RGBShiftIntensity: &v} },
	},
	ParamDurationIn: {
		name: "durationIn", key: common.KeyD, min: 0.1, max: 3, step: 0.1, timing: true,
		get: func(p hover.Parameters) float64 { return p.DurationIn },
		set: func(v float64) hover.ParameterUpdate { return hover.ParameterUpdate{DurationIn: &v} },
	},
	ParamDurationOut: {
		name: "durationOut", key: common.KeyF, min: 0.1, max: 3, step: 0.1, timing: true,
		get: func(p hover.Parameters) float64 { return p.DurationOut },
		set: func(v float64) hover.ParameterUpdate { return hover.ParameterUpdate{DurationOut: &v} },
	},
	ParamEaseIn:  {name: "easeIn", key: common.KeyE, timing: true},
	ParamEaseOut: {name: "easeOut", key: common.KeyO, timing: true},
}

// String returns the configuration name of the parameter.
func (p Param) String() string {
	if s, ok := specs[p]; ok {
		return s.name
	}
	return "unknown"
}

// paramForKey returns the parameter selected by key.
func paramForKey(key uint32) (Param, bool) {
	for p, s := range specs {
		if s.key == key {
			return p, true
		}
	}
	return 0, false
}

// nudge returns v moved by dir steps and clamped to the parameter's range. Values are rounded to
// the step so repeated nudges do not accumulate float error.
func (s paramSpec) nudge(v float64, dir int) float64 {
	v = common.Clamp(v+float64(dir)*s.step, s.min, s.max)
	steps := (v - s.min) / s.step
	rounded := s.min + float64(int64(steps+0.5))*s.step
	return common.Clamp(rounded, s.min, s.max)
}

// cycleEase returns the catalogue entry dir places after current. Identifiers outside the catalogue
// start from its first entry.
func cycleEase(current string, dir int) string {
	catalogue := tween.Catalogue()
	if len(catalogue) == 0 {
		return current
	}
	i := slices.Index(catalogue, current)
	if i < 0 {
		return catalogue[0]
	}
	n := len(catalogue)
	return catalogue[((i+dir)%n+n)%n]
}
