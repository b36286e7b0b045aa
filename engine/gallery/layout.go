package gallery

import (
	"math"

	"github.com/Carmen-Shannon/oxy-hover/engine/config"
	"github.com/Carmen-Shannon/oxy-hover/engine/plane"
)

// DefaultGap is the spacing in pixels between auto-placed slides and around the grid.
const DefaultGap = 24

// Layout places every slide. Slides with a rect keep it; the rest share a grid that fills the
// viewport, in manifest order, row by row.
//
// Parameters:
//   - slides: the manifest slides
//   - viewW, viewH: the framebuffer size in pixels
//   - gap: the spacing between cells and around the grid
//
// Returns:
//   - []plane.Rect: one rect per slide
func Layout(slides []config.Slide, viewW, viewH, gap float64) []plane.Rect {
	rects := make([]plane.Rect, len(slides))
	var auto []int
	for i, s := range slides {
		if s.HasRect() {
			rects[i] = plane.Rect{X: s.X, Y: s.Y, W: s.Width, H: s.Height}
			continue
		}
		auto = append(auto, i)
	}
	if len(auto) == 0 {
		return rects
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(auto)))))
	rows := (len(auto) + cols - 1) / cols
	cellW := max((viewW-gap*float64(cols+1))/float64(cols), 1)
	cellH := max((viewH-gap*float64(rows+1))/float64(rows), 1)

	for n, i := range auto {
		col, row := n%cols, n/cols
		rects[i] = plane.Rect{
			X: gap + float64(col)*(cellW+gap),
			Y: gap + float64(row)*(cellH+gap),
			W: cellW,
			H: cellH,
		}
	}
	return rects
}
