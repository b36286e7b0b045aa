// Package config resolves the hover configuration of a gallery: document defaults, per-slide
// attribute overrides and the YAML manifest that carries both.
package config

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-hover/engine/hover"
	"github.com/Carmen-Shannon/oxy-hover/engine/logging"
	"github.com/Carmen-Shannon/oxy-hover/engine/tween"
	"go.uber.org/zap"
)

// ErrMalformedValue is wrapped by every attribute that could not be applied.
var ErrMalformedValue = errors.New("config: malformed value")

// Config is the flat set of recognized options. Angles are in degrees.
type Config struct {
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
	Debug             bool
}

// Default returns the document-level defaults.
func Default() Config {
	return Config{
		DurationIn:        0.8,
		DurationOut:       0.8,
		EaseIn:            hover.DefaultEase,
		EaseOut:           hover.DefaultEase,
		Intensity:         1,
		DisplacementAngle: 0,
		Zoom:              0.1,
		ImageRotation:     0,
		NoiseSpeed:        0.5,
		NoiseScale:        6,
		RGBShiftIntensity: 0,
		Debug:             false,
	}
}

// Parameters converts c into the controller's configuration record.
func (c Config) Parameters() hover.Parameters {
	return hover.Parameters{
		DurationIn:        c.DurationIn,
		DurationOut:       c.DurationOut,
		EaseIn:            c.EaseIn,
		EaseOut:           c.EaseOut,
		Intensity:         c.Intensity,
		DisplacementAngle: c.DisplacementAngle,
		Zoom:              c.Zoom,
		ImageRotation:     c.ImageRotation,
		NoiseSpeed:        c.NoiseSpeed,
		NoiseScale:        c.NoiseScale,
		RGBShiftIntensity: c.RGBShiftIntensity,
	}
}

// FromAttributes merges attrs over base and logs every value it had to reject.
// Rejected values keep the inherited setting.
//
// Parameters:
//   - base: the inherited configuration
//   - attrs: the overrides, keyed by attribute name
//
// Returns:
//   - Config: the merged configuration
func FromAttributes(base Config, attrs map[string]string) Config {
	merged, err := MergeAttributes(base, attrs)
	if err != nil {
		for _, e := range unwrapJoined(err) {
			logging.Named("config").Warn("attribute ignored", zap.Error(e))
		}
	}
	return merged
}

// MergeAttributes is FromAttributes without the logging. Keys are matched case-insensitively,
// with or without a "data-" prefix, and dashes or underscores are ignored, so "data-duration-in",
// "duration-in" and "durationIn" name the same option. Unknown keys are ignored. When several keys
// name the same option, a "data-" key wins over a bare one, then the lexically greatest key wins.
//
// Parameters:
//   - base: the inherited configuration
//   - attrs: the overrides, keyed by attribute name
//
// Returns:
//   - Config: the merged configuration
//   - error: every rejected value joined, each wrapping ErrMalformedValue, or nil
func MergeAttributes(base Config, attrs map[string]string) (Config, error) {
	out := base
	var errs []error
	for _, key := range attributeOrder(attrs) {
		raw := attrs[key]
		value := strings.TrimSpace(raw)
		var err error
		switch normalizeKey(key) {
		case "durationin":
			err = setDuration(&out.DurationIn, value)
		case "durationout":
			err = setDuration(&out.DurationOut, value)
		case "easein":
			err = setEase(&out.EaseIn, value)
		case "easeout":
			err = setEase(&out.EaseOut, value)
		case "intensity":
			err = setFloat(&out.Intensity, value)
		case "displacementangle":
			err = setFloat(&out.DisplacementAngle, value)
		case "zoom":
			err = setFloat(&out.Zoom, value)
		case "imagerotation":
			err = setFloat(&out.ImageRotation, value)
		case "noisespeed":
			err = setFloat(&out.NoiseSpeed, value)
		case "noisescale":
			err = setFloat(&out.NoiseScale, value)
		case "rgbshiftintensity":
			err = setFloat(&out.RGBShiftIntensity, value)
		case "debug":
			err = setBool(&out.Debug, value)
		default:
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q: %v", ErrMalformedValue, key, raw, err))
		}
	}
	return out, errors.Join(errs...)
}

// attributeOrder returns the keys of attrs in the order they are applied: bare keys first, then
// "data-" keys, each group sorted.
func attributeOrder(attrs map[string]string) []string {
	keys := slices.Collect(maps.Keys(attrs))
	slices.SortFunc(keys, func(a, b string) int {
		if pa, pb := hasDataPrefix(a), hasDataPrefix(b); pa != pb {
			if pa {
				return 1
			}
			return -1
		}
		return strings.Compare(a, b)
	})
	return keys
}

func hasDataPrefix(key string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(key)), "data-")
}

func normalizeKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.TrimPrefix(k, "data-")
	return strings.NewReplacer("-", "", "_", "").Replace(k)
}

func setFloat(dst *float64, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a finite number")
	}
	*dst = v
	return nil
}

func setDuration(dst *float64, value string) error {
	var v float64
	if err := setFloat(&v, value); err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration")
	}
	*dst = v
	return nil
}

func setEase(dst *string, value string) error {
	if _, err := tween.ParseEase(value); err != nil {
		return err
	}
	*dst = value
	return nil
}

func setBool(dst *bool, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func unwrapJoined(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
