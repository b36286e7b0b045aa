package hover

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-hover/common"
	"github.com/Carmen-Shannon/oxy-hover/engine/tween"
)

func TestNewParameterSetRoundTrip(t *testing.T) {
	p := testParameters()
	ps, err := NewParameterSet(p, common.Vec2{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("NewParameterSet() error = %v", err)
	}
	got := ps.Parameters()
	if math.Abs(got.ImageRotation-p.ImageRotation) > 1e-9 {
		t.Errorf("ImageRotation = %v, want %v", got.ImageRotation, p.ImageRotation)
	}
	got.ImageRotation = p.ImageRotation
	if got != p {
		t.Errorf("Parameters() = %+v, want %+v", got, p)
	}
	if want := common.DegreesToRadians(30); math.Abs(ps.RotationRadians()-want) > 1e-12 {
		t.Errorf("RotationRadians() = %v, want %v", ps.RotationRadians(), want)
	}
	if ps.CoverScale() != (common.Vec2{X: 1, Y: 2}) {
		t.Errorf("CoverScale() = %v, want {1 2}", ps.CoverScale())
	}
}

func TestNewParameterSetFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Parameters)
		wantEaseIn  string
		wantEaseOut string
		wantIn      float64
		wantOut     float64
	}{
		{
			name:        "unknown ease in",
			mutate:      func(p *Parameters) { p.EaseIn = "wobble.in" },
			wantEaseIn:  DefaultEase,
			wantEaseOut: "expo.inOut",
			wantIn:      0.5,
			wantOut:     1,
		},
		{
			name:        "empty eases",
			mutate:      func(p *Parameters) { p.EaseIn, p.EaseOut = "", "" },
			wantEaseIn:  DefaultEase,
			wantEaseOut: DefaultEase,
			wantIn:      0.5,
			wantOut:     1,
		},
		{
			name:        "negative durations",
			mutate:      func(p *Parameters) { p.DurationIn, p.DurationOut = -1, -0.5 },
			wantEaseIn:  "power2.out",
			wantEaseOut: "expo.inOut",
			wantIn:      0,
			wantOut:     0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParameters()
			tt.mutate(&p)
			ps, err := NewParameterSet(p, common.Vec2{X: 1, Y: 1})
			if err == nil {
				t.Error("NewParameterSet() error = nil, want a reported fallback")
			}
			if ps == nil {
				t.Fatal("NewParameterSet() returned nil set")
			}
			got := ps.Parameters()
			if got.EaseIn != tt.wantEaseIn || got.EaseOut != tt.wantEaseOut {
				t.Errorf("eases = %q/%q, want %q/%q", got.EaseIn, got.EaseOut, tt.wantEaseIn, tt.wantEaseOut)
			}
			if got.DurationIn != tt.wantIn || got.DurationOut != tt.wantOut {
				t.Errorf("durations = %v/%v, want %v/%v", got.DurationIn, got.DurationOut, tt.wantIn, tt.wantOut)
			}
		})
	}
}

func TestUnknownEaseErrorWraps(t *testing.T) {
	p := testParameters()
	p.EaseOut = "nope"
	_, err := NewParameterSet(p, common.Vec2{X: 1, Y: 1})
	if !errors.Is(err, tween.ErrUnknownEase) {
		t.Errorf("error = %v, want wrapping %v", err, tween.ErrUnknownEase)
	}
}

func TestApplyDisplacementChanged(t *testing.T) {
	tests := []struct {
		name string
		u    ParameterUpdate
		want bool
	}{
		{"empty", ParameterUpdate{}, false},
		{"same intensity", ParameterUpdate{Intensity: Ptr(1.0)}, false},
		{"new intensity", ParameterUpdate{Intensity: Ptr(0.5)}, true},
		{"new angle", ParameterUpdate{DisplacementAngle: Ptr(120.0)}, true},
		{"unrelated", ParameterUpdate{Zoom: Ptr(0.4), NoiseScale: Ptr(3.0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, _ := NewParameterSet(testParameters(), common.Vec2{X: 1, Y: 1})
			got, err := ps.Apply(tt.u)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() changed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyZeroIntensityCollapsesDisplacement(t *testing.T) {
	ps, _ := NewParameterSet(testParameters(), common.Vec2{X: 1, Y: 1})
	if _, err := ps.Apply(ParameterUpdate{Intensity: Ptr(0.0)}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if d := ps.Displacement(); d != (common.Vec2{}) {
		t.Errorf("Displacement() = %v, want zero vector", d)
	}
	if got := ps.Parameters().DisplacementAngle; got != 45 {
		t.Errorf("DisplacementAngle = %v, want 45 preserved", got)
	}
}

func TestApplyClampsNegativeDuration(t *testing.T) {
	ps, _ := NewParameterSet(testParameters(), common.Vec2{X: 1, Y: 1})
	if _, err := ps.Apply(ParameterUpdate{DurationIn: Ptr(-3.0)}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := ps.Parameters().DurationIn; got != 0 {
		t.Errorf("DurationIn = %v, want 0", got)
	}
}
