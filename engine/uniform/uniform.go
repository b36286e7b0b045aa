// Package uniform defines the fixed set of shader inputs driven by a hover controller
// and their GPU layouts.
package uniform

// Kind tags the WGSL type of a declared uniform.
type Kind string

const (
	// KindF32 is a single f32.
	KindF32 Kind = "f32"

	// KindVec2 is a vec2<f32>.
	KindVec2 Kind = "vec2<f32>"
)

// Block is the live uniform state of one surface. Each field maps to one member of the WGSL
// HoverUniforms struct. A controller owns its Block exclusively and mirrors it into its surface.
type Block struct {
	Time         float32
	MousePos     [2]float32
	Resolution   [2]float32
	Progress     float32
	Displacement [2]float32
	Zoom         float32
	Rotation     float32
	NoiseSpeed   float32
	NoiseScale   float32
	RGBShift     float32
	Tex1Scale    [2]float32
}

// Rest returns a block in its resting state: no progress, unit zoom, no rotation or shift.
func Rest() Block {
	return Block{
		Zoom:      1,
		Tex1Scale: [2]float32{1, 1},
	}
}

// Declaration describes one uniform the surface must provide: its WGSL member name, its type
// and the value it starts with.
type Declaration struct {
	Name    string
	Kind    Kind
	Initial [2]float32
}

// Declarations lists every uniform in b with b's values as initial values, in WGSL
// declaration-list order.
//
// Parameters:
//   - b: the block providing initial values
//
// Returns:
//   - []Declaration: the fixed uniform declaration list
func Declarations(b Block) []Declaration {
	f := func(v float32) [2]float32 { return [2]float32{v, 0} }
	return []Declaration{
		{Name: "time", Kind: KindF32, Initial: f(b.Time)},
		{Name: "mousepos", Kind: KindVec2, Initial: b.MousePos},
		{Name: "resolution", Kind: KindVec2, Initial: b.Resolution},
		{Name: "progress", Kind: KindF32, Initial: f(b.Progress)},
		{Name: "displacement", Kind: KindVec2, Initial: b.Displacement},
		{Name: "zoom", Kind: KindF32, Initial: f(b.Zoom)},
		{Name: "rotation", Kind: KindF32, Initial: f(b.Rotation)},
		{Name: "noiseSpeed", Kind: KindF32, Initial: f(b.NoiseSpeed)},
		{Name: "noiseScale", Kind: KindF32, Initial: f(b.NoiseScale)},
		{Name: "rgbShift", Kind: KindF32, Initial: f(b.RGBShift)},
		{Name: "tex1Scale", Kind: KindVec2, Initial: b.Tex1Scale},
	}
}

// GPU converts the block into its GPU-aligned upload form.
func (b Block) GPU() GPUHoverUniforms {
	return GPUHoverUniforms{
		Time:         b.Time,
		Progress:     b.Progress,
		MousePos:     b.MousePos,
		Resolution:   b.Resolution,
		Displacement: b.Displacement,
		Tex1Scale:    b.Tex1Scale,
		Zoom:         b.Zoom,
		Rotation:     b.Rotation,
		NoiseSpeed:   b.NoiseSpeed,
		NoiseScale:   b.NoiseScale,
		RGBShift:     b.RGBShift,
	}
}
