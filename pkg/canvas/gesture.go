package canvas

import (
	"errors"
	"fmt"
	"image"
)

// Gesture is the pointer interaction in progress. It is one of Idle,
// Selecting, MovingElement or Connecting.
type Gesture interface {
	gesture()
}

// Idle means no button is held.
type Idle struct{}

// Selecting is a rubber band selection started on empty canvas.
type Selecting struct {
	Start, Current image.Point
	Moved          bool
}

// MovingElement drags an element. Last is the previous move position.
type MovingElement struct {
	Element     string
	Start, Last image.Point
}

// Connecting drags a link out of a socket.
type Connecting struct {
	Element, Socket string
	Start, Current  image.Point
}

func (Idle) gesture()          {}
func (Selecting) gesture()     {}
func (MovingElement) gesture() {}
func (Connecting) gesture()    {}

// EventKind tells a host what a pointer event did.
type EventKind int

const (
	EventNone EventKind = iota
	EventBeginSelect
	EventBeginMove
	EventBeginConnect
	EventMoved
	EventRubberBand
	EventSelectionBox
	EventHover
	EventSelectRect
	EventToggleSelect
	EventMoveDone
	EventConnect
	EventDiscard
)

var eventNames = [...]string{
	EventNone:         "none",
	EventBeginSelect:  "begin-select",
	EventBeginMove:    "begin-move",
	EventBeginConnect: "begin-connect",
	EventMoved:        "moved",
	EventRubberBand:   "rubber-band",
	EventSelectionBox: "selection-box",
	EventHover:        "hover",
	EventSelectRect:   "select-rect",
	EventToggleSelect: "toggle-select",
	EventMoveDone:     "move-done",
	EventConnect:      "connect",
	EventDiscard:      "discard",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is the outcome of one pointer call.
type Event struct {
	Kind EventKind

	Element, Socket string // origin, or the hovered socket
	Target          string // connect target element
	TargetSocket    string

	Selected []string // names selected by a release
	Err      error    // backend outcome of EventConnect
}

// PointerDown starts a gesture at pt. Every selection flag is cleared
// first.
func (c *Canvas) PointerDown(pt image.Point) Event {
	c.layout.ClearSelection()
	c.tooltip = ""

	hit := c.layout.Resolve(c.snap, pt)
	switch {
	case hit.OnSocket():
		c.gesture = Connecting{Element: hit.Element, Socket: hit.Socket, Start: pt, Current: pt}
		return Event{Kind: EventBeginConnect, Element: hit.Element, Socket: hit.Socket}
	case !hit.None():
		c.gesture = MovingElement{Element: hit.Element, Start: pt, Last: pt}
		return Event{Kind: EventBeginMove, Element: hit.Element}
	default:
		c.gesture = Selecting{Start: pt, Current: pt}
		return Event{Kind: EventBeginSelect}
	}
}

// PointerMove advances the gesture. With no button held it hovers.
func (c *Canvas) PointerMove(pt image.Point) Event {
	switch g := c.gesture.(type) {
	case MovingElement:
		delta := pt.Sub(g.Last)
		g.Last = pt
		c.gesture = g
		if delta == (image.Point{}) || !c.layout.Translate(g.Element, delta, c.opts.Bounds) {
			return Event{Kind: EventNone, Element: g.Element}
		}
		return Event{Kind: EventMoved, Element: g.Element}

	case Connecting:
		g.Current = pt
		c.gesture = g
		return Event{Kind: EventRubberBand, Element: g.Element, Socket: g.Socket}

	case Selecting:
		g.Current = pt
		g.Moved = true
		c.gesture = g
		return Event{Kind: EventSelectionBox}
	}
	return c.hover(pt)
}

func (c *Canvas) hover(pt image.Point) Event {
	c.tooltip = ""
	hit := c.layout.Resolve(c.snap, pt)
	if !hit.OnSocket() {
		return Event{Kind: EventNone}
	}
	if ref, ok := c.snap.Resolve(hit.Element, hit.Socket); ok {
		c.tooltip = c.snap.SocketAt(ref).Caps
	}
	return Event{Kind: EventHover, Element: hit.Element, Socket: hit.Socket}
}

// PointerUp ends the gesture at pt and returns to Idle.
func (c *Canvas) PointerUp(pt image.Point) Event {
	g := c.gesture
	c.gesture = Idle{}

	switch g := g.(type) {
	case Connecting:
		return c.finishConnect(g, pt)

	case Selecting:
		dx, dy := abs(pt.X-g.Start.X), abs(pt.Y-g.Start.Y)
		if dx*dy <= c.opts.SelectMinArea {
			return Event{Kind: EventNone}
		}
		return Event{Kind: EventSelectRect, Selected: c.layout.SelectIn(spanRect(g.Start, pt))}

	case MovingElement:
		if pt == g.Start {
			c.layout.Select(g.Element)
			return Event{Kind: EventToggleSelect, Element: g.Element, Selected: []string{g.Element}}
		}
		return Event{Kind: EventMoveDone, Element: g.Element}
	}
	return Event{Kind: EventNone}
}

// Cancel abandons the gesture without touching the backend.
func (c *Canvas) Cancel() {
	c.gesture = Idle{}
}

func (c *Canvas) finishConnect(g Connecting, pt image.Point) Event {
	ev := Event{Kind: EventDiscard, Element: g.Element, Socket: g.Socket}

	hit := c.layout.Resolve(c.snap, pt)
	if !hit.OnSocket() {
		return ev
	}
	ev.Target, ev.TargetSocket = hit.Element, hit.Socket
	if hit.Element == g.Element {
		c.log.Info("source and destination are the same element, nothing to connect",
			"element", g.Element, "socket", g.Socket, "target", hit.Socket)
		return ev
	}
	if _, ok := c.snap.Resolve(g.Element, g.Socket); !ok {
		return ev
	}

	ev.Kind = EventConnect
	c.log.Info("connect", "element", g.Element, "socket", g.Socket,
		"target", hit.Element, "target_socket", hit.Socket)
	if err := c.backend.Connect(g.Element, g.Socket, hit.Element, hit.Socket); err != nil {
		ev.Err = err
		c.reject("Connection failed", fmt.Errorf("%s.%s => %s.%s: %w",
			g.Element, g.Socket, hit.Element, hit.Socket, err),
			"element", g.Element, "socket", g.Socket)
	}
	if err := c.resync(); err != nil {
		ev.Err = errors.Join(ev.Err, err)
	}
	return ev
}
