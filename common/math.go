package common

import (
	"errors"
	"math"
	"unsafe"
)

// ErrDegenerateAspect is returned by CoverScale when either rectangle has a non-positive or non-finite side.
var ErrDegenerateAspect = errors.New("common: degenerate aspect ratio")

// Vec2 is a plain two component vector used for shader inputs.
type Vec2 struct {
	X, Y float64
}

// Len returns the euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Float32 narrows v into the [2]float32 form used by uniform blocks.
func (v Vec2) Float32() [2]float32 {
	return [2]float32{float32(v.X), float32(v.Y)}
}

// DegreesToRadians converts an angle in degrees to radians.
//
// Parameters:
//   - d: angle in degrees
//
// Returns:
//   - float64: the angle in radians
func DegreesToRadians(d float64) float64 {
	return d * (math.Pi / 180)
}

// RadiansToDegrees converts an angle in radians to degrees.
//
// Parameters:
//   - r: angle in radians
//
// Returns:
//   - float64: the angle in degrees
func RadiansToDegrees(r float64) float64 {
	return r * (180 / math.Pi)
}

// Displacement encodes the direction and strength of the distortion as a 2D vector.
// The vector has length |intensity| and points along angleDegrees, measured counter-clockwise from +X.
//
// Parameters:
//   - intensity: the magnitude of the displacement
//   - angleDegrees: the direction of the displacement in degrees
//
// Returns:
//   - Vec2: (intensity*cos(angle), intensity*sin(angle))
func Displacement(intensity, angleDegrees float64) Vec2 {
	if intensity == 0 {
		return Vec2{}
	}
	rad := DegreesToRadians(angleDegrees)
	return Vec2{X: intensity * math.Cos(rad), Y: intensity * math.Sin(rad)}
}

// CoverScale computes the scale a texture needs to fully cover a plane of a different aspect ratio
// without stretching. One axis is always 1 and the other is the ratio of the two aspect ratios (>= 1).
// When the plane is relatively wider than the texture X grows, otherwise Y grows.
//
// Parameters:
//   - planeW, planeH: the plane dimensions
//   - texW, texH: the texture dimensions
//
// Returns:
//   - Vec2: the scale to apply to the texture coordinates
//   - error: ErrDegenerateAspect if any dimension is zero, negative, NaN or infinite
func CoverScale(planeW, planeH, texW, texH float64) (Vec2, error) {
	for _, d := range [...]float64{planeW, planeH, texW, texH} {
		if !(d > 0) || math.IsInf(d, 0) {
			return Vec2{X: 1, Y: 1}, ErrDegenerateAspect
		}
	}

	planeRatio := planeW / planeH
	textureRatio := texW / texH

	scale := Vec2{X: 1, Y: 1}
	if planeRatio > textureRatio {
		scale.X = planeRatio / textureRatio
	} else {
		scale.Y = textureRatio / planeRatio
	}
	return scale, nil
}

// Clamp restricts v to the closed interval [lo, hi].
func Clamp[T ~float32 | ~float64 | ~int](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// PixelRectToNDC converts a rectangle given in window pixels (origin top-left, Y down) to
// normalized device coordinates (origin center, Y up).
//
// Parameters:
//   - x, y, w, h: the rectangle in pixels
//   - viewW, viewH: the viewport size in pixels
//
// Returns:
//   - [4]float32: left, top, right, bottom in NDC
func PixelRectToNDC(x, y, w, h, viewW, viewH float64) [4]float32 {
	if viewW <= 0 || viewH <= 0 {
		return [4]float32{}
	}
	left := x/viewW*2 - 1
	right := (x+w)/viewW*2 - 1
	top := 1 - y/viewH*2
	bottom := 1 - (y+h)/viewH*2
	return [4]float32{float32(left), float32(top), float32(right), float32(bottom)}
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}
