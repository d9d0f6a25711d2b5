package graph

import "errors"

// Backend is the graph engine the canvas edits. Every structural call
// returns a pass/fail outcome; the canvas never assumes a call took effect
// and re-reads Snapshot afterwards.
type Backend interface {
	Snapshot() (*Snapshot, error)
	Connect(src, srcSocket, dst, dstSocket string) error
	Disconnect(src, srcSocket, dst, dstSocket string) error
	AddElement(kind string) (string, error)
	RemoveElement(name string) error
	// CanConnect reports whether an element of the given kind could be
	// attached to element.socket. Permissive skips caps compatibility.
	CanConnect(element, socket, kind string, permissive bool) bool
	// IsActive reports a running pipeline; destructive edits are refused
	// by the canvas while it is true.
	IsActive() bool
	RequestAdditionalSocket(element, template string) error
	// Kinds lists the element kinds that can be added, highest rank first.
	Kinds() []string
	// SocketTemplates lists the request templates an element offers.
	SocketTemplates(element string) ([]Template, error)
}

// Template describes a socket that can be created on request. Name may
// contain a %u placeholder for the instance number.
type Template struct {
	Name      string
	Direction Direction
	Caps      string
}

var (
	ErrUnknownElement = errors.New("unknown element")
	ErrUnknownSocket  = errors.New("unknown socket")
	ErrUnknownKind    = errors.New("unknown kind")
	ErrAlreadyLinked  = errors.New("socket already linked")
	ErrNotLinked      = errors.New("sockets not linked")
	ErrDirection      = errors.New("link must run from an out socket to an in socket")
	ErrIncompatible   = errors.New("incompatible caps")
	ErrNoTemplate     = errors.New("no such socket template")
)
