package main

import "image"

// Each terminal cell covers cellW x cellH canvas units.
const (
	cellW = 10
	cellH = 10
)

// viewport maps terminal cells to canvas points. Offset is the canvas
// point shown in the top-left cell.
type viewport struct {
	offset image.Point
	width  int // cells
	height int
}

// point returns the canvas point at the centre of cell (x, y).
func (v viewport) point(x, y int) image.Point {
	return image.Pt(v.offset.X+x*cellW+cellW/2, v.offset.Y+y*cellH+cellH/2)
}

// cell returns the cell containing canvas point p.
func (v viewport) cell(p image.Point) (x, y int) {
	return floorDiv(p.X-v.offset.X, cellW), floorDiv(p.Y-v.offset.Y, cellH)
}

// cells returns the cell rectangle covering r, which is half-open.
func (v viewport) cells(r image.Rectangle) image.Rectangle {
	x0, y0 := v.cell(r.Min)
	x1, y1 := v.cell(r.Max.Sub(image.Pt(1, 1)))
	return image.Rect(x0, y0, x1+1, y1+1)
}

func (v viewport) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.width && y < v.height
}

// pan moves the viewport by dx, dy cells, clamped to bounds when bounds
// is not empty.
func (v *viewport) pan(dx, dy int, bounds image.Rectangle) {
	v.offset = v.offset.Add(image.Pt(dx*cellW, dy*cellH))
	if bounds.Empty() {
		return
	}
	maxX := bounds.Max.X - v.width*cellW
	maxY := bounds.Max.Y - v.height*cellH
	v.offset.X = max(bounds.Min.X, min(v.offset.X, maxX))
	v.offset.Y = max(bounds.Min.Y, min(v.offset.Y, maxY))
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
