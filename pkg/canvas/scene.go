package canvas

import (
	"image"

	"github.com/ha1tch/padgraph/pkg/graph"
)

// SceneSocket is a socket as drawn.
type SceneSocket struct {
	Name      string
	Direction graph.Direction
	Caps      string
	At        image.Point
	Linked    bool
}

// SceneElement is an element as drawn.
type SceneElement struct {
	Name     string
	Kind     string
	Rect     image.Rectangle
	Selected bool
	Sockets  []SceneSocket
}

// SceneLink is one connection, drawn from its Out socket to its In socket
// along Wire.
type SceneLink struct {
	From, To image.Point
	Src, Dst graph.Peer
	Wire     Wire
}

// Scene is a read-only view of everything a renderer draws.
type Scene struct {
	Elements []SceneElement
	Links    []SceneLink

	// RubberBand is set while a link is being dragged.
	RubberBand *[2]image.Point
	// SelectionBox is set while a selection rectangle is being dragged.
	SelectionBox *image.Rectangle

	SocketSize int
}

// Extent is the union of element rectangles and socket squares.
func (s Scene) Extent() image.Rectangle {
	var r image.Rectangle
	for _, e := range s.Elements {
		r = r.Union(e.Rect)
		for _, sock := range e.Sockets {
			r = r.Union(square(sock.At, s.SocketSize))
		}
	}
	return r
}

// Scene builds the render view of the canvas.
func (c *Canvas) Scene() Scene {
	return BuildScene(c.snap, c.layout, c.gesture, c.opts.SocketSize)
}

// BuildScene assembles a scene from a snapshot and a layout reconciled
// with it.
func BuildScene(snap *graph.Snapshot, l *Layout, g Gesture, socketSize int) Scene {
	scene := Scene{SocketSize: socketSize}
	records := l.Records()
	for i := range snap.Len() {
		id := graph.ElementID(i)
		e := snap.Element(id)
		se := SceneElement{
			Name:     e.Name,
			Kind:     e.Kind,
			Rect:     records[i].Rect,
			Selected: records[i].Selected,
			Sockets:  make([]SceneSocket, len(e.Sockets)),
		}
		for j, s := range e.Sockets {
			se.Sockets[j] = SceneSocket{
				Name:      s.Name,
				Direction: s.Direction,
				Caps:      s.Caps,
				At:        l.SocketPoint(snap, graph.SocketRef{Element: id, Socket: j}),
				Linked:    s.Peer.Connected(),
			}
		}
		scene.Elements = append(scene.Elements, se)
	}

	for _, lk := range snap.Links() {
		if snap.SocketAt(lk.From).Direction != graph.Out {
			continue
		}
		from, to := l.SocketPoint(snap, lk.From), l.SocketPoint(snap, lk.To)
		scene.Links = append(scene.Links, SceneLink{
			From: from,
			To:   to,
			Src:  graph.Peer{Element: snap.Element(lk.From.Element).Name, Socket: snap.SocketAt(lk.From).Name},
			Dst:  graph.Peer{Element: snap.Element(lk.To.Element).Name, Socket: snap.SocketAt(lk.To).Name},
			Wire: l.LinkWire(snap, lk),
		})
	}

	switch g := g.(type) {
	case Connecting:
		scene.RubberBand = &[2]image.Point{g.Start, g.Current}
	case Selecting:
		if g.Moved {
			box := spanRect(g.Start, g.Current)
			scene.SelectionBox = &box
		}
	}
	return scene
}
