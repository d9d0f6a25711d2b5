// Wire curves for links.
// A link leaves its Out socket heading right and enters its In socket
// from the left as one cubic Bézier segment. Renderers draw it and
// NearestLink measures against it, so a link is hit where it is drawn.

package canvas

import (
	"image"
	"math"
)

// minPull is the shortest horizontal control arm, in scene units.
const minPull = 40.0

// Point is a scene position with sub-unit precision.
type Point struct {
	X, Y float64
}

func toPoint(p image.Point) Point {
	return Point{float64(p.X), float64(p.Y)}
}

// Wire holds the control points P0, C1, C2, P1 of a link curve.
type Wire [4]Point

// NewWire returns the curve from an Out socket at from to an In socket
// at to. The control arms are half the horizontal distance, at least
// minPull, so backward links loop around instead of cutting through.
func NewWire(from, to image.Point) Wire {
	pull := math.Max(minPull, math.Abs(float64(to.X-from.X))/2)
	p0, p1 := toPoint(from), toPoint(to)
	return Wire{p0, {p0.X + pull, p0.Y}, {p1.X - pull, p1.Y}, p1}
}

// At computes the point on the wire at parameter t ∈ [0,1].
func (w Wire) At(t float64) Point {
	t = math.Max(0, math.Min(1, t))
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point{
		X: mt3*w[0].X + 3*mt2*t*w[1].X + 3*mt*t2*w[2].X + t3*w[3].X,
		Y: mt3*w[0].Y + 3*mt2*t*w[1].Y + 3*mt*t2*w[2].Y + t3*w[3].Y,
	}
}

// Tangent computes the derivative at parameter t.
func (w Wire) Tangent(t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t

	return Point{
		X: 3*mt2*(w[1].X-w[0].X) + 6*mt*t*(w[2].X-w[1].X) + 3*t2*(w[3].X-w[2].X),
		Y: 3*mt2*(w[1].Y-w[0].Y) + 6*mt*t*(w[2].Y-w[1].Y) + 3*t2*(w[3].Y-w[2].Y),
	}
}

// Length approximates the arc length by sampling.
func (w Wire) Length() float64 {
	length := 0.0
	numSamples := 100
	prev := w.At(0)

	for i := 1; i <= numSamples; i++ {
		curr := w.At(float64(i) / float64(numSamples))
		length += math.Hypot(curr.X-prev.X, curr.Y-prev.Y)
		prev = curr
	}
	return length
}

// Flatten samples the wire into a polyline whose segments are at most
// step units long.
func (w Wire) Flatten(step float64) []Point {
	n := max(1, int(math.Ceil(w.Length()/step)))
	pts := make([]Point, n+1)
	for i := range pts {
		pts[i] = w.At(float64(i) / float64(n))
	}
	return pts
}
