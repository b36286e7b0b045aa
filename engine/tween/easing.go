package tween

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownEase is returned by ParseEase for identifiers outside the catalogue.
var ErrUnknownEase = errors.New("tween: unknown ease")

// Ease maps linear progress t in [0,1] to eased progress. Overshooting curves (back, elastic)
// may leave [0,1] in between but always start at 0 and end at 1.
type Ease func(t float64) float64

// Linear is the identity curve, named "none" in the catalogue.
var Linear Ease = func(t float64) float64 { return t }

const (
	defaultBackOvershoot    = 1.70158
	defaultElasticAmplitude = 1.0
	defaultElasticPeriod    = 0.3
)

// catalogue lists the identifiers offered to users when cycling through curves.
var catalogue = []string{
	"none",
	"power1.in", "power1.out", "power1.inOut",
	"power2.in", "power2.out", "power2.inOut",
	"power3.in", "power3.out", "power3.inOut",
	"power4.in", "power4.out", "power4.inOut",
	"back.in(1.7)", "back.out(1.7)", "back.inOut(1.7)",
	"elastic.out(1, 0.3)", "elastic.out(1, 0.5)", "elastic.inOut(1, 0.3)",
	"bounce.out", "bounce.inOut",
	"circ.in", "circ.out", "circ.inOut",
	"expo.in", "expo.out", "expo.inOut",
}

// Catalogue returns the named curves in display order.
func Catalogue() []string {
	out := make([]string, len(catalogue))
	copy(out, catalogue)
	return out
}

// easeIdentifierRegex splits "family[.variant][(args)]", e.g. "elastic.out(1, 0.3)".
var easeIdentifierRegex = regexp.MustCompile(`^([a-z]+[0-9]?)(?:\.(in|out|inout))?(?:\(([^)]*)\))?$`)

// powerAliases maps named polynomial families to their power index.
var powerAliases = map[string]int{
	"power0": 0,
	"power1": 1,
	"power2": 2,
	"power3": 3,
	"power4": 4,
	"quad":   1,
	"cubic":  2,
	"quart":  3,
	"quint":  4,
	"strong": 4,
}

// ParseEase resolves an identifier such as "power2.out", "back.inOut(1.7)" or "elastic.out(1, 0.3)".
// Matching is case-insensitive, a bare family name means the out variant and "none"/"linear" is linear.
//
// Parameters:
//   - id: the easing identifier
//
// Returns:
//   - Ease: the resolved curve with exact 0 and 1 endpoints
//   - error: ErrUnknownEase wrapped with the identifier when it is not in the catalogue
func ParseEase(id string) (Ease, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(id), " ", ""))
	if norm == "none" || norm == "linear" {
		return Linear, nil
	}

	m := easeIdentifierRegex.FindStringSubmatch(norm)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEase, id)
	}
	family, variant := m[1], m[2]
	if variant == "" {
		variant = "out"
	}
	args, err := parseEaseArgs(m[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownEase, id, err)
	}

	var in Ease
	switch {
	case family == "none" || family == "linear":
		return Linear, nil
	case family == "sine":
		in = sineIn
	case family == "circ":
		in = circIn
	case family == "expo":
		in = expoIn
	case family == "bounce":
		in = bounceIn
	case family == "back":
		s := defaultBackOvershoot
		if len(args) > 0 {
			s = args[0]
		}
		in = backIn(s)
		if variant == "inout" {
			return clampEnds(backInOut(s)), nil
		}
	case family == "elastic":
		amp, period := defaultElasticAmplitude, defaultElasticPeriod
		if len(args) > 0 {
			amp = args[0]
		}
		if len(args) > 1 {
			period = args[1]
		}
		in = elasticIn(amp, period)
	default:
		p, ok := powerAliases[family]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEase, id)
		}
		if p == 0 {
			return Linear, nil
		}
		in = powerIn(float64(p + 1))
	}

	switch variant {
	case "in":
		return clampEnds(in), nil
	case "inout":
		return clampEnds(inOutOf(in)), nil
	default:
		return clampEnds(outOf(in)), nil
	}
}

// MustParseEase is ParseEase for identifiers known at compile time. It panics on error.
func MustParseEase(id string) Ease {
	e, err := ParseEase(id)
	if err != nil {
		panic(err)
	}
	return e
}

func parseEaseArgs(raw string) ([]float64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite argument %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

// clampEnds pins t<=0 to 0 and t>=1 to 1 so every curve settles exactly on its target.
func clampEnds(e Ease) Ease {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return e(t)
	}
}

func outOf(in Ease) Ease {
	return func(t float64) float64 { return 1 - in(1-t) }
}

func inOutOf(in Ease) Ease {
	return func(t float64) float64 {
		if t < 0.5 {
			return in(2*t) / 2
		}
		return 1 - in(2*(1-t))/2
	}
}

func powerIn(exp float64) Ease {
	return func(t float64) float64 { return math.Pow(t, exp) }
}

func sineIn(t float64) float64 {
	return 1 - math.Cos(t*math.Pi/2)
}

func circIn(t float64) float64 {
	return 1 - math.Sqrt(1-t*t)
}

func expoIn(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*(t-1))
}

func bounceOut(t float64) float64 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

func bounceIn(t float64) float64 {
	return 1 - bounceOut(1-t)
}

func backIn(s float64) Ease {
	return func(t float64) float64 { return t * t * ((s+1)*t - s) }
}

func backInOut(s float64) Ease {
	c := s * 1.525
	return func(t float64) float64 {
		if t < 0.5 {
			return (math.Pow(2*t, 2) * ((c+1)*2*t - c)) / 2
		}
		return (math.Pow(2*t-2, 2)*((c+1)*(t*2-2)+c) + 2) / 2
	}
}

// elasticIn builds the in variant of a decaying sine with the given amplitude and period.
// Amplitudes below 1 are raised to 1 so the curve still reaches its target.
func elasticIn(amplitude, period float64) Ease {
	if amplitude < 1 {
		amplitude = 1
	}
	if period <= 0 {
		period = defaultElasticPeriod
	}
	shift := period / (2 * math.Pi) * math.Asin(1/amplitude)
	return func(t float64) float64 {
		t--
		return -(amplitude * math.Pow(2, 10*t) * math.Sin((t-shift)*(2*math.Pi)/period))
	}
}
