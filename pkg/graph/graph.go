// Package graph provides the pipeline graph model consumed by the canvas:
// immutable snapshots of elements, their sockets and connections.
package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is the flow direction of a socket.
type Direction int

const (
	In Direction = iota
	Out
)

// String returns "in" or "out".
func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// Opposite returns the direction a peer socket must have.
func (d Direction) Opposite() Direction {
	if d == Out {
		return In
	}
	return Out
}

// ParseDirection accepts "in"/"sink" and "out"/"src".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "sink":
		return In, nil
	case "out", "src", "source":
		return Out, nil
	}
	return In, fmt.Errorf("invalid direction %q", s)
}

// Peer names the socket on the other end of a connection.
// The zero value means unconnected.
type Peer struct {
	Element string
	Socket  string
}

// Connected reports whether the peer names a socket.
func (p Peer) Connected() bool {
	return p.Element != "" && p.Socket != ""
}

// Socket is a connection point on an element.
type Socket struct {
	Name      string
	Direction Direction
	Caps      string
	Peer      Peer
}

// Element is a processing node with an ordered list of sockets.
type Element struct {
	Name    string
	Kind    string
	Sockets []Socket
}

// Counts returns the number of In and Out sockets.
func (e *Element) Counts() (in, out int) {
	for _, s := range e.Sockets {
		if s.Direction == Out {
			out++
		} else {
			in++
		}
	}
	return in, out
}

// ElementID is a handle into a snapshot's element sequence. Handles are
// only meaningful for the snapshot that issued them.
type ElementID int

// SocketRef addresses a socket inside a snapshot.
type SocketRef struct {
	Element ElementID
	Socket  int
}

// Link is one connected socket pair, seen from the From side.
type Link struct {
	From SocketRef
	To   SocketRef
}

var (
	ErrEmptyName        = errors.New("empty name")
	ErrDuplicateElement = errors.New("duplicate element")
	ErrDuplicateSocket  = errors.New("duplicate socket")
)

// Snapshot is a point-in-time view of the backend graph. It is never
// mutated after construction.
type Snapshot struct {
	elements []Element
	byName   map[string]ElementID
	sockets  []map[string]int
	// per socket: rank among siblings with the same direction
	rank [][]int
}

// NewSnapshot copies elements into a new indexed snapshot.
func NewSnapshot(elements []Element) (*Snapshot, error) {
	s := &Snapshot{
		elements: make([]Element, len(elements)),
		byName:   make(map[string]ElementID, len(elements)),
		sockets:  make([]map[string]int, len(elements)),
		rank:     make([][]int, len(elements)),
	}
	for i, e := range elements {
		if e.Name == "" {
			return nil, fmt.Errorf("element %d: %w", i, ErrEmptyName)
		}
		if _, dup := s.byName[e.Name]; dup {
			return nil, fmt.Errorf("%s: %w", e.Name, ErrDuplicateElement)
		}
		s.byName[e.Name] = ElementID(i)

		socks := make([]Socket, len(e.Sockets))
		copy(socks, e.Sockets)
		e.Sockets = socks
		s.elements[i] = e

		idx := make(map[string]int, len(socks))
		rank := make([]int, len(socks))
		var nIn, nOut int
		for j, sock := range socks {
			if sock.Name == "" {
				return nil, fmt.Errorf("%s socket %d: %w", e.Name, j, ErrEmptyName)
			}
			if _, dup := idx[sock.Name]; dup {
				return nil, fmt.Errorf("%s.%s: %w", e.Name, sock.Name, ErrDuplicateSocket)
			}
			idx[sock.Name] = j
			if sock.Direction == Out {
				rank[j] = nOut
				nOut++
			} else {
				rank[j] = nIn
				nIn++
			}
		}
		s.sockets[i] = idx
		s.rank[i] = rank
	}
	return s, nil
}

// MustSnapshot is NewSnapshot for fixtures; it panics on invalid input.
func MustSnapshot(elements ...Element) *Snapshot {
	s, err := NewSnapshot(elements)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of elements.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.elements)
}

// Element returns the element for id. The result must not be modified.
func (s *Snapshot) Element(id ElementID) *Element {
	return &s.elements[id]
}

// Lookup returns the handle of the named element.
func (s *Snapshot) Lookup(name string) (ElementID, bool) {
	if s == nil {
		return 0, false
	}
	id, ok := s.byName[name]
	return id, ok
}

// Socket returns the index of the named socket on element id.
func (s *Snapshot) Socket(id ElementID, name string) (int, bool) {
	j, ok := s.sockets[id][name]
	return j, ok
}

// Resolve looks up an (element, socket) pair by name.
func (s *Snapshot) Resolve(element, socket string) (SocketRef, bool) {
	id, ok := s.Lookup(element)
	if !ok {
		return SocketRef{}, false
	}
	j, ok := s.Socket(id, socket)
	if !ok {
		return SocketRef{}, false
	}
	return SocketRef{Element: id, Socket: j}, true
}

// SocketAt returns the socket a ref points at.
func (s *Snapshot) SocketAt(ref SocketRef) *Socket {
	return &s.elements[ref.Element].Sockets[ref.Socket]
}

// Rank returns the socket's index among same-direction siblings and the
// number of such siblings.
func (s *Snapshot) Rank(ref SocketRef) (index, count int) {
	e := &s.elements[ref.Element]
	in, out := e.Counts()
	count = in
	if e.Sockets[ref.Socket].Direction == Out {
		count = out
	}
	return s.rank[ref.Element][ref.Socket], count
}

// Peer resolves the socket connected to ref. It reports false when the
// socket is unconnected or its peer is not part of this snapshot.
func (s *Snapshot) Peer(ref SocketRef) (SocketRef, bool) {
	p := s.SocketAt(ref).Peer
	if !p.Connected() {
		return SocketRef{}, false
	}
	return s.Resolve(p.Element, p.Socket)
}

// Links returns every resolvable connection seen from each of its sides,
// in element then socket order.
func (s *Snapshot) Links() []Link {
	var links []Link
	for i := range s.Len() {
		for j := range s.elements[i].Sockets {
			from := SocketRef{Element: ElementID(i), Socket: j}
			if to, ok := s.Peer(from); ok {
				links = append(links, Link{From: from, To: to})
			}
		}
	}
	return links
}

// Names returns element names in snapshot order.
func (s *Snapshot) Names() []string {
	names := make([]string, s.Len())
	for i := range names {
		names[i] = s.elements[i].Name
	}
	return names
}

// Validate checks that every connection is recorded on both sides and
// joins an Out socket to an In socket.
func (s *Snapshot) Validate() error {
	for i := range s.Len() {
		e := &s.elements[i]
		for j, sock := range e.Sockets {
			if !sock.Peer.Connected() {
				continue
			}
			from := SocketRef{Element: ElementID(i), Socket: j}
			to, ok := s.Peer(from)
			if !ok {
				return fmt.Errorf("%s.%s: peer %s.%s not in graph",
					e.Name, sock.Name, sock.Peer.Element, sock.Peer.Socket)
			}
			if s.SocketAt(to).Direction == sock.Direction {
				return fmt.Errorf("%s.%s: peer %s.%s has the same direction (%s)",
					e.Name, sock.Name, sock.Peer.Element, sock.Peer.Socket, sock.Direction)
			}
			if back, ok := s.Peer(to); !ok || back != from {
				return fmt.Errorf("%s.%s: connection to %s.%s is not mirrored",
					e.Name, sock.Name, sock.Peer.Element, sock.Peer.Socket)
			}
		}
	}
	return nil
}
