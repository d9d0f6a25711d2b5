package graph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// State is the playback state of a Memory pipeline.
type State int

const (
	StateNull State = iota
	StateReady
	StatePaused
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	default:
		return "null"
	}
}

// SocketSpec is a socket every element of a kind is created with.
type SocketSpec struct {
	Name      string
	Direction Direction
	Caps      string
}

// Kind is an element factory.
type Kind struct {
	Name      string
	Rank      int
	Sockets   []SocketSpec
	Templates []Template
}

type memElement struct {
	name    string
	kind    *Kind
	sockets []Socket
	next    map[string]int // next %u per template
}

// Memory is an in-process Backend holding the whole graph in memory.
// It is not safe for concurrent use.
type Memory struct {
	kinds    map[string]*Kind
	elements []*memElement
	counters map[string]int
	state    State
}

// NewMemory creates an empty graph with the given kind catalog.
func NewMemory(kinds ...Kind) *Memory {
	m := &Memory{
		kinds:    make(map[string]*Kind),
		counters: make(map[string]int),
	}
	for _, k := range kinds {
		m.AddKind(k)
	}
	return m
}

// AddKind registers or replaces a kind.
func (m *Memory) AddKind(k Kind) {
	kc := k
	m.kinds[k.Name] = &kc
}

// SetState changes the playback state.
func (m *Memory) SetState(s State) {
	m.state = s
}

// State returns the playback state.
func (m *Memory) State() State {
	return m.state
}

// Clear removes every element.
func (m *Memory) Clear() {
	m.elements = nil
	m.counters = make(map[string]int)
}

// IsActive is true while paused or playing.
func (m *Memory) IsActive() bool {
	return m.state == StatePaused || m.state == StatePlaying
}

// Kinds returns kind names ordered by rank (highest first), then name.
func (m *Memory) Kinds() []string {
	names := make([]string, 0, len(m.kinds))
	for name := range m.kinds {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := m.kinds[names[i]].Rank, m.kinds[names[j]].Rank
		if ri != rj {
			return ri > rj
		}
		return names[i] < names[j]
	})
	return names
}

// Snapshot returns the current graph.
func (m *Memory) Snapshot() (*Snapshot, error) {
	elements := make([]Element, len(m.elements))
	for i, e := range m.elements {
		elements[i] = Element{Name: e.name, Kind: e.kind.Name, Sockets: e.sockets}
	}
	return NewSnapshot(elements)
}

// AddElement creates an element of kind named kind+N.
func (m *Memory) AddElement(kind string) (string, error) {
	k, ok := m.kinds[kind]
	if !ok {
		return "", fmt.Errorf("%s: %w", kind, ErrUnknownKind)
	}
	var name string
	for {
		name = kind + strconv.Itoa(m.counters[kind])
		m.counters[kind]++
		if m.find(name) == nil {
			break
		}
	}
	m.add(k, name)
	return name, nil
}

// AddNamed creates an element of kind with an explicit name.
func (m *Memory) AddNamed(kind, name string) error {
	k, ok := m.kinds[kind]
	if !ok {
		return fmt.Errorf("%s: %w", kind, ErrUnknownKind)
	}
	if name == "" {
		return ErrEmptyName
	}
	if m.find(name) != nil {
		return fmt.Errorf("%s: %w", name, ErrDuplicateElement)
	}
	m.add(k, name)
	return nil
}

func (m *Memory) add(k *Kind, name string) {
	e := &memElement{name: name, kind: k, next: make(map[string]int)}
	for _, spec := range k.Sockets {
		e.sockets = append(e.sockets, Socket{Name: spec.Name, Direction: spec.Direction, Caps: spec.Caps})
	}
	m.elements = append(m.elements, e)
}

// RemoveElement unlinks and deletes an element.
func (m *Memory) RemoveElement(name string) error {
	for i, e := range m.elements {
		if e.name != name {
			continue
		}
		for _, s := range e.sockets {
			if s.Peer.Connected() {
				if peer := m.socket(s.Peer.Element, s.Peer.Socket); peer != nil {
					peer.Peer = Peer{}
				}
			}
		}
		m.elements = append(m.elements[:i], m.elements[i+1:]...)
		return nil
	}
	return fmt.Errorf("%s: %w", name, ErrUnknownElement)
}

// Connect links src.srcSocket (Out) to dst.dstSocket (In).
func (m *Memory) Connect(src, srcSocket, dst, dstSocket string) error {
	from, err := m.lookup(src, srcSocket)
	if err != nil {
		return err
	}
	to, err := m.lookup(dst, dstSocket)
	if err != nil {
		return err
	}
	if from.Direction != Out || to.Direction != In {
		return fmt.Errorf("%s.%s -> %s.%s: %w", src, srcSocket, dst, dstSocket, ErrDirection)
	}
	if from.Peer.Connected() || to.Peer.Connected() {
		return fmt.Errorf("%s.%s -> %s.%s: %w", src, srcSocket, dst, dstSocket, ErrAlreadyLinked)
	}
	if !CapsCompatible(from.Caps, to.Caps) {
		return fmt.Errorf("%s.%s (%s) -> %s.%s (%s): %w",
			src, srcSocket, from.Caps, dst, dstSocket, to.Caps, ErrIncompatible)
	}
	from.Peer = Peer{Element: dst, Socket: dstSocket}
	to.Peer = Peer{Element: src, Socket: srcSocket}
	return nil
}

// Disconnect removes the link between src.srcSocket and dst.dstSocket.
func (m *Memory) Disconnect(src, srcSocket, dst, dstSocket string) error {
	from, err := m.lookup(src, srcSocket)
	if err != nil {
		return err
	}
	to, err := m.lookup(dst, dstSocket)
	if err != nil {
		return err
	}
	if from.Peer != (Peer{Element: dst, Socket: dstSocket}) || to.Peer != (Peer{Element: src, Socket: srcSocket}) {
		return fmt.Errorf("%s.%s -> %s.%s: %w", src, srcSocket, dst, dstSocket, ErrNotLinked)
	}
	from.Peer = Peer{}
	to.Peer = Peer{}
	return nil
}

// CanConnect reports whether kind has a static socket that could take a
// link from element.socket.
func (m *Memory) CanConnect(element, socket, kind string, permissive bool) bool {
	s, err := m.lookup(element, socket)
	if err != nil || s.Peer.Connected() {
		return false
	}
	k, ok := m.kinds[kind]
	if !ok {
		return false
	}
	want := s.Direction.Opposite()
	for _, spec := range k.Sockets {
		if spec.Direction != want {
			continue
		}
		if permissive || CapsCompatible(s.Caps, spec.Caps) {
			return true
		}
	}
	return false
}

// SocketTemplates lists the request templates of element's kind.
func (m *Memory) SocketTemplates(element string) ([]Template, error) {
	e := m.find(element)
	if e == nil {
		return nil, fmt.Errorf("%s: %w", element, ErrUnknownElement)
	}
	out := make([]Template, len(e.kind.Templates))
	copy(out, e.kind.Templates)
	return out, nil
}

// RequestAdditionalSocket instantiates a socket from a template.
func (m *Memory) RequestAdditionalSocket(element, template string) error {
	e := m.find(element)
	if e == nil {
		return fmt.Errorf("%s: %w", element, ErrUnknownElement)
	}
	var tmpl *Template
	for i := range e.kind.Templates {
		if e.kind.Templates[i].Name == template {
			tmpl = &e.kind.Templates[i]
			break
		}
	}
	if tmpl == nil {
		return fmt.Errorf("%s: %s: %w", element, template, ErrNoTemplate)
	}

	name := tmpl.Name
	if strings.Contains(name, "%u") {
		for {
			n := e.next[tmpl.Name]
			e.next[tmpl.Name]++
			name = strings.Replace(tmpl.Name, "%u", strconv.Itoa(n), 1)
			if e.socketNamed(name) == nil {
				break
			}
		}
	} else if e.socketNamed(name) != nil {
		return fmt.Errorf("%s.%s: %w", element, name, ErrDuplicateSocket)
	}
	e.sockets = append(e.sockets, Socket{Name: name, Direction: tmpl.Direction, Caps: tmpl.Caps})
	return nil
}

// CapsCompatible reports whether two caps descriptions can be linked:
// either side is empty or ANY, or both name the same media type.
func CapsCompatible(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" || a == "ANY" || b == "ANY" {
		return true
	}
	return mediaType(a) == mediaType(b)
}

func mediaType(caps string) string {
	if i := strings.IndexByte(caps, ','); i >= 0 {
		caps = caps[:i]
	}
	return strings.TrimSpace(caps)
}

func (m *Memory) find(name string) *memElement {
	for _, e := range m.elements {
		if e.name == name {
			return e
		}
	}
	return nil
}

func (e *memElement) socketNamed(name string) *Socket {
	for i := range e.sockets {
		if e.sockets[i].Name == name {
			return &e.sockets[i]
		}
	}
	return nil
}

func (m *Memory) socket(element, socket string) *Socket {
	e := m.find(element)
	if e == nil {
		return nil
	}
	return e.socketNamed(socket)
}

func (m *Memory) lookup(element, socket string) (*Socket, error) {
	e := m.find(element)
	if e == nil {
		return nil, fmt.Errorf("%s: %w", element, ErrUnknownElement)
	}
	s := e.socketNamed(socket)
	if s == nil {
		return nil, fmt.Errorf("%s.%s: %w", element, socket, ErrUnknownSocket)
	}
	return s, nil
}

var _ Backend = (*Memory)(nil)
