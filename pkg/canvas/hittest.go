package canvas

import (
	"image"

	"github.com/ha1tch/padgraph/pkg/graph"
)

// Hit is what lies under a point. An empty Element means nothing was hit;
// an empty Socket means the element body was hit.
type Hit struct {
	Element string
	Socket  string
}

// None reports whether nothing was hit.
func (h Hit) None() bool { return h.Element == "" }

// OnSocket reports whether a socket was hit.
func (h Hit) OnSocket() bool { return h.Socket != "" }

// Resolve finds the element or socket under pt. Only the first record
// whose grown hit area contains pt is considered; if pt then misses both
// its sockets and its body, nothing is hit.
func (l *Layout) Resolve(snap *graph.Snapshot, pt image.Point) Hit {
	for i, r := range l.records {
		if !pt.In(l.opts.HitMargin.Grow(r.Rect)) {
			continue
		}
		id := graph.ElementID(i)
		e := snap.Element(id)
		for j := range e.Sockets {
			at := l.SocketPoint(snap, graph.SocketRef{Element: id, Socket: j})
			if pt.In(square(at, l.opts.SocketHitSize)) {
				return Hit{Element: e.Name, Socket: e.Sockets[j].Name}
			}
		}
		if pt.In(r.Rect) {
			return Hit{Element: e.Name}
		}
		return Hit{}
	}
	return Hit{}
}

// linkStep is the polyline segment length used when measuring wires.
const linkStep = 4.0

// NearestLink returns the first link in snapshot order whose drawn wire
// passes within maxDistance of pt. A connection appears once per side in
// snap.Links(), so the returned link may run either way.
func (l *Layout) NearestLink(snap *graph.Snapshot, pt image.Point, maxDistance float64) (graph.Link, bool) {
	for _, lk := range snap.Links() {
		if polylineDistance(pt, l.LinkWire(snap, lk).Flatten(linkStep)) < maxDistance {
			return lk, true
		}
	}
	return graph.Link{}, false
}

// LinkWire is the wire of lk as renderers draw it, from the Out side to
// the In side.
func (l *Layout) LinkWire(snap *graph.Snapshot, lk graph.Link) Wire {
	from, to := lk.From, lk.To
	if snap.SocketAt(from).Direction == graph.In && snap.SocketAt(to).Direction == graph.Out {
		from, to = to, from
	}
	return NewWire(l.SocketPoint(snap, from), l.SocketPoint(snap, to))
}
