package canvas

import (
	"image"
	"math"

	"github.com/ha1tch/padgraph/pkg/graph"
)

// SocketPosition places the index-th of count same-direction sockets on
// the edge of r: In sockets on the left edge, Out sockets on the right
// edge, evenly spaced over the height.
func SocketPosition(r image.Rectangle, dir graph.Direction, index, count int) image.Point {
	delta := r.Dy() / (count + 1)
	y := r.Min.Y + (index+1)*delta
	if dir == graph.Out {
		return image.Pt(r.Max.X-1, y)
	}
	return image.Pt(r.Min.X, y)
}

// square returns the size x size square centred on p.
func square(p image.Point, size int) image.Rectangle {
	corner := p.Sub(image.Pt(size/2, size/2))
	return image.Rectangle{Min: corner, Max: corner.Add(image.Pt(size, size))}
}

// spanRect is the rectangle with a and b as opposite corners, both
// corners included.
func spanRect(a, b image.Point) image.Rectangle {
	r := image.Rectangle{Min: a, Max: b}.Canon()
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

// polylineDistance is the distance from p to the nearest segment of pts.
func polylineDistance(p image.Point, pts []Point) float64 {
	pf := toPoint(p)
	d := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		d = math.Min(d, segmentDistance(pf, pts[i-1], pts[i]))
	}
	return d
}

// segmentDistance is the distance from p to the segment ab.
func segmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	px, py := p.X-a.X, p.Y-a.Y

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px, py)
	}
	t := (px*dx + py*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-t*dx, py-t*dy)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
