package plane

import "github.com/Carmen-Shannon/oxy-hover/engine/uniform"

// Segments is the number of grid subdivisions along each axis of a plane.
const Segments = 20

// Rect is a plane's placement in window pixels, origin top-left.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the pixel (x, y) lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return !r.Empty() && x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Local maps the pixel (x, y) into r's unit square, origin top-left. Points outside r map outside [0, 1].
func (r Rect) Local(x, y float64) (float64, float64) {
	if r.Empty() {
		return 0, 0
	}
	return (x - r.X) / r.W, (y - r.Y) / r.H
}

// Grid tessellates an NDC rectangle into segX by segY quads.
//
// Parameters:
//   - ndc: left, top, right, bottom in normalized device coordinates
//   - segX, segY: the number of quads along each axis, at least 1
//
// Returns:
//   - []uniform.GPUPlaneVertex: (segX+1)*(segY+1) vertices, row-major from the top-left corner
//   - []uint32: segX*segY*6 indices, two counter-clockwise triangles per quad
func Grid(ndc [4]float32, segX, segY int) ([]uniform.GPUPlaneVertex, []uint32) {
	segX = max(segX, 1)
	segY = max(segY, 1)
	left, top, right, bottom := ndc[0], ndc[1], ndc[2], ndc[3]

	vertices := make([]uniform.GPUPlaneVertex, 0, (segX+1)*(segY+1))
	for j := 0; j <= segY; j++ {
		v := float32(j) / float32(segY)
		for i := 0; i <= segX; i++ {
			u := float32(i) / float32(segX)
			vertices = append(vertices, uniform.GPUPlaneVertex{
				Position: [2]float32{left + (right-left)*u, top + (bottom-top)*v},
				UV:       [2]float32{u, v},
			})
		}
	}

	row := uint32(segX + 1)
	indices := make([]uint32, 0, segX*segY*6)
	for j := 0; j < segY; j++ {
		for i := 0; i < segX; i++ {
			a := uint32(j)*row + uint32(i)
			b := a + 1
			c := a + row
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}
	return vertices, indices
}
