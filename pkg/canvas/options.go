// Package canvas is the interactive core of the pipeline editor. It keeps
// a non-overlapping layout for the elements of a graph snapshot, maps
// pointer positions to elements, sockets and links, and turns pointer
// gestures into backend commands.
//
// The package never draws. Renderers read a Scene and hosting shells
// receive requests through the Shell interface.
package canvas

import (
	"image"
	"log/slog"
)

// Margin grows a rectangle on each side.
type Margin struct {
	Top, Right, Bottom, Left int
}

// Grow returns r grown by m.
func (m Margin) Grow(r image.Rectangle) image.Rectangle {
	return image.Rect(r.Min.X-m.Left, r.Min.Y-m.Top, r.Max.X+m.Right, r.Max.Y+m.Bottom)
}

// Options holds the geometry constants of the canvas.
type Options struct {
	DefaultOrigin image.Point // where new elements start their search
	DefaultWidth  int
	MinHeight     int
	RowPitch      int    // vertical room reserved per socket row
	Step          int    // downward shift per collision
	Spacing       Margin // growth keeping gaps between elements

	HitMargin       Margin // element hit area around its rectangle
	SocketHitSize   int    // side of the square that picks a socket
	SocketSize      int    // side of the drawn socket square
	SelectMinArea   int    // rubber band area that must be exceeded to select
	LinkHitDistance float64

	// Bounds limits interactive moves. The zero rectangle disables the check.
	Bounds image.Rectangle

	Logger *slog.Logger
}

// DefaultOptions returns the standard canvas geometry.
func DefaultOptions() Options {
	return Options{
		DefaultOrigin:   image.Pt(10, 10),
		DefaultWidth:    150,
		MinHeight:       50,
		RowPitch:        25,
		Step:            25,
		Spacing:         Margin{Top: 15, Right: 30},
		HitMargin:       Margin{Top: 6, Right: 8, Bottom: 6, Left: 8},
		SocketHitSize:   16,
		SocketSize:      8,
		SelectMinArea:   5,
		LinkHitDistance: 5,
		Bounds:          image.Rect(0, 0, 1280, 960),
	}
}
