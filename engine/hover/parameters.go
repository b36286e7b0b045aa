package hover

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-hover/common"
	"github.com/Carmen-Shannon/oxy-hover/engine/tween"
)

// DefaultEase is used when a configured easing identifier cannot be resolved.
const DefaultEase = "power2.out"

// Parameters is the human-facing configuration of one surface. Angles are in degrees.
type Parameters struct {
	DurationIn        float64
	DurationOut       float64
	EaseIn            string
	EaseOut           string
	Intensity         float64
	DisplacementAngle float64
	Zoom              float64
	ImageRotation     float64
	NoiseSpeed        float64
	NoiseScale        float64
	RGBShiftIntensity float64
}

// ParameterUpdate is a partial reconfiguration. Nil fields are left unchanged.
type ParameterUpdate struct {
	DurationIn        *float64
	DurationOut       *float64
	EaseIn            *string
	EaseOut           *string
	Intensity         *float64
	DisplacementAngle *float64
	Zoom              *float64
	ImageRotation     *float64
	NoiseSpeed        *float64
	NoiseScale        *float64
	RGBShiftIntensity *float64
}

// Ptr returns a pointer to v. Handy for building a ParameterUpdate.
func Ptr[T any](v T) *T {
	return &v
}

// ParameterSet is the resolved configuration of one controller. Rotation is kept in radians and
// easing identifiers are kept alongside their resolved curves. The displacement vector is always
// derived from intensity and angle and the texture cover scale is fixed at construction.
type ParameterSet struct {
	durationIn        float64
	durationOut       float64
	easeInID          string
	easeOutID         string
	easeIn            tween.Ease
	easeOut           tween.Ease
	intensity         float64
	displacementAngle float64
	zoom              float64
	rotation          float64
	noiseSpeed        float64
	noiseScale        float64
	rgbShift          float64
	coverScale        common.Vec2
}

// NewParameterSet resolves p into a ParameterSet. Unknown easing identifiers fall back to
// DefaultEase and negative durations are raised to zero; both are reported in the returned error,
// which never prevents construction.
//
// Parameters:
//   - p: the configuration to resolve
//   - coverScale: the texture cover scale of the surface
//
// Returns:
//   - *ParameterSet: the resolved parameter set, never nil
//   - error: the joined resolution problems, or nil
func NewParameterSet(p Parameters, coverScale common.Vec2) (*ParameterSet, error) {
	ps := &ParameterSet{
		durationIn:        max(p.DurationIn, 0),
		durationOut:       max(p.DurationOut, 0),
		intensity:         p.Intensity,
		displacementAngle: p.DisplacementAngle,
		zoom:              p.Zoom,
		rotation:          common.DegreesToRadians(p.ImageRotation),
		noiseSpeed:        p.NoiseSpeed,
		noiseScale:        p.NoiseScale,
		rgbShift:          p.RGBShiftIntensity,
		coverScale:        coverScale,
	}

	var errs []error
	if p.DurationIn < 0 || p.DurationOut < 0 {
		errs = append(errs, fmt.Errorf("negative duration (in=%v, out=%v) raised to 0", p.DurationIn, p.DurationOut))
	}
	if err := ps.setEaseIn(p.EaseIn, DefaultEase); err != nil {
		errs = append(errs, err)
	}
	if err := ps.setEaseOut(p.EaseOut, DefaultEase); err != nil {
		errs = append(errs, err)
	}
	return ps, errors.Join(errs...)
}

// Displacement returns the displacement vector derived from intensity and angle.
func (ps *ParameterSet) Displacement() common.Vec2 {
	return common.Displacement(ps.intensity, ps.displacementAngle)
}

// CoverScale returns the texture cover scale fixed at construction.
func (ps *ParameterSet) CoverScale() common.Vec2 {
	return ps.coverScale
}

// RotationRadians returns the image rotation at full progress.
func (ps *ParameterSet) RotationRadians() float64 {
	return ps.rotation
}

// Parameters returns the human-facing view of the set, with rotation converted back to degrees.
func (ps *ParameterSet) Parameters() Parameters {
	return Parameters{
		DurationIn:        ps.durationIn,
		DurationOut:       ps.durationOut,
		EaseIn:            ps.easeInID,
		EaseOut:           ps.easeOutID,
		Intensity:         ps.intensity,
		DisplacementAngle: ps.displacementAngle,
		Zoom:              ps.zoom,
		ImageRotation:     common.RadiansToDegrees(ps.rotation),
		NoiseSpeed:        ps.noiseSpeed,
		NoiseScale:        ps.noiseScale,
		RGBShiftIntensity: ps.rgbShift,
	}
}

// Apply updates the fields present in u. An easing identifier that cannot be resolved leaves the
// previous curve in place and is reported in the returned error; every other field is still applied.
//
// Parameters:
//   - u: the partial update
//
// Returns:
//   - bool: true if intensity or displacement angle changed
//   - error: the joined problems, or nil
func (ps *ParameterSet) Apply(u ParameterUpdate) (bool, error) {
	var errs []error
	if u.DurationIn != nil {
		ps.durationIn = max(*u.DurationIn, 0)
	}
	if u.DurationOut != nil {
		ps.durationOut = max(*u.DurationOut, 0)
	}
	if u.EaseIn != nil {
		if err := ps.setEaseIn(*u.EaseIn, ps.easeInID); err != nil {
			errs = append(errs, err)
		}
	}
	if u.EaseOut != nil {
		if err := ps.setEaseOut(*u.EaseOut, ps.easeOutID); err != nil {
			errs = append(errs, err)
		}
	}
	if u.Zoom != nil {
		ps.zoom = *u.Zoom
	}
	if u.ImageRotation != nil {
		ps.rotation = common.DegreesToRadians(*u.ImageRotation)
	}
	if u.NoiseSpeed != nil {
		ps.noiseSpeed = *u.NoiseSpeed
	}
	if u.NoiseScale != nil {
		ps.noiseScale = *u.NoiseScale
	}
	if u.RGBShiftIntensity != nil {
		ps.rgbShift = *u.RGBShiftIntensity
	}

	displacementChanged := false
	if u.Intensity != nil && *u.Intensity != ps.intensity {
		ps.intensity = *u.Intensity
		displacementChanged = true
	}
	if u.DisplacementAngle != nil && *u.DisplacementAngle != ps.displacementAngle {
		ps.displacementAngle = *u.DisplacementAngle
		displacementChanged = true
	}
	return displacementChanged, errors.Join(errs...)
}

func (ps *ParameterSet) setEaseIn(id, fallback string) error {
	e, resolved, err := resolveEase(id, fallback)
	ps.easeIn, ps.easeInID = e, resolved
	return err
}

func (ps *ParameterSet) setEaseOut(id, fallback string) error {
	e, resolved, err := resolveEase(id, fallback)
	ps.easeOut, ps.easeOutID = e, resolved
	return err
}

// resolveEase parses id, falling back to fallback and then DefaultEase.
func resolveEase(id, fallback string) (tween.Ease, string, error) {
	e, err := tween.ParseEase(id)
	if err == nil {
		return e, id, nil
	}
	if fb, fbErr := tween.ParseEase(fallback); fbErr == nil {
		return fb, fallback, err
	}
	return tween.MustParseEase(DefaultEase), DefaultEase, err
}
