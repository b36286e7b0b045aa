package uniform

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUHoverUniformsSource is the canonical WGSL definition of the HoverUniforms struct.
// Matches GPUHoverUniforms layout exactly (64 bytes, WGSL uniform aligned).
//
//go:embed assets/hover_uniforms.wgsl
var GPUHoverUniformsSource string

// GPUPlaneParamsSource is the canonical WGSL definition of the PlaneParams struct.
// Matches GPUPlaneParams layout exactly (16 bytes).
//
//go:embed assets/plane_params.wgsl
var GPUPlaneParamsSource string

// GPUPlaneVertexSource is the canonical WGSL definition of the plane VertexInput struct.
// Matches GPUPlaneVertex layout exactly (16 bytes per vertex).
//
//go:embed assets/plane_vertex.wgsl
var GPUPlaneVertexSource string

// GPUHoverUniforms is the GPU-aligned representation of a Block.
// Matches the WGSL HoverUniforms struct layout exactly (see GPUHoverUniformsSource).
// Size: 64 bytes.
type GPUHoverUniforms struct {
	Time         float32    // offset  0: animation time accumulator (f32)
	Progress     float32    // offset  4: transition progress (f32)
	MousePos     [2]float32 // offset  8: pointer position inside the plane (vec2<f32>)
	Resolution   [2]float32 // offset 16: framebuffer size in pixels (vec2<f32>)
	Displacement [2]float32 // offset 24: displacement direction and strength (vec2<f32>)
	Tex1Scale    [2]float32 // offset 32: texture cover scale (vec2<f32>)
	Zoom         float32    // offset 40: zoom factor (f32)
	Rotation     float32    // offset 44: rotation in radians (f32)
	NoiseSpeed   float32    // offset 48: noise speed (f32)
	NoiseScale   float32    // offset 52: noise scale (f32)
	RGBShift     float32    // offset 56: rgb channel shift (f32)
	_pad         float32    // offset 60: padding to 64 bytes
}

// Size returns the size of the GPUHoverUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUHoverUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUHoverUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUHoverUniforms) Marshal() []byte {
	buf := make([]byte, g.Size())
	putF32(buf, 0, g.Time)
	putF32(buf, 4, g.Progress)
	putVec2(buf, 8, g.MousePos)
	putVec2(buf, 16, g.Resolution)
	putVec2(buf, 24, g.Displacement)
	putVec2(buf, 32, g.Tex1Scale)
	putF32(buf, 40, g.Zoom)
	putF32(buf, 44, g.Rotation)
	putF32(buf, 48, g.NoiseSpeed)
	putF32(buf, 52, g.NoiseScale)
	putF32(buf, 56, g.RGBShift)
	putF32(buf, 60, 0) // _pad
	return buf
}

// GPUPlaneParams holds per-plane presentation state that is not part of the hover uniforms.
// Matches the WGSL PlaneParams struct layout exactly (see GPUPlaneParamsSource).
// Size: 16 bytes.
type GPUPlaneParams struct {
	Extent    [2]float32 // offset  0: plane size in pixels (vec2<f32>)
	Highlight float32    // offset  8: 1 when the debug outline is drawn (f32)
	Outline   float32    // offset 12: outline width in pixels (f32)
}

// Size returns the size of the GPUPlaneParams struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUPlaneParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPlaneParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUPlaneParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	putVec2(buf, 0, g.Extent)
	putF32(buf, 8, g.Highlight)
	putF32(buf, 12, g.Outline)
	return buf
}

// GPUPlaneVertex is one vertex of the plane grid.
// Matches the WGSL VertexInput struct in GPUPlaneVertexSource.
type GPUPlaneVertex struct {
	Position [2]float32 // location 0: position in normalized device coordinates
	UV       [2]float32 // location 1: texture coordinate, origin top-left
}

func putF32(buf []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
}

func putVec2(buf []byte, offset int, v [2]float32) {
	putF32(buf, offset, v[0])
	putF32(buf, offset+4, v[1])
}
