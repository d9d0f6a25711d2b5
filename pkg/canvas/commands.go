package canvas

import (
	"errors"
	"fmt"

	"github.com/ha1tch/padgraph/pkg/graph"
)

// Disconnect unlinks element.socket from its peer. The link is oriented
// from its Out side to its In side before it is sent; when either end is
// missing from the snapshot, or both ends share a direction, nothing is
// sent.
func (c *Canvas) Disconnect(element, socket string) error {
	if c.backend.IsActive() {
		return fmt.Errorf("disconnect %s.%s: %w", element, socket, ErrActive)
	}
	ref, ok := c.snap.Resolve(element, socket)
	if !ok {
		return fmt.Errorf("disconnect %s.%s: %w", element, socket, ErrUnresolved)
	}
	peer, ok := c.snap.Peer(ref)
	if !ok {
		c.log.Debug("disconnect abandoned, peer not in graph", "element", element, "socket", socket)
		return fmt.Errorf("disconnect %s.%s: peer: %w", element, socket, ErrUnresolved)
	}

	src, dst := ref, peer
	if c.snap.SocketAt(ref).Direction == graph.In {
		src, dst = peer, ref
	}
	if c.snap.SocketAt(src).Direction != graph.Out || c.snap.SocketAt(dst).Direction != graph.In {
		return fmt.Errorf("disconnect %s.%s: %w", element, socket, ErrUnresolved)
	}

	srcName, dstName := c.snap.Element(src.Element).Name, c.snap.Element(dst.Element).Name
	srcSock, dstSock := c.snap.SocketAt(src).Name, c.snap.SocketAt(dst).Name
	c.log.Info("disconnect", "element", srcName, "socket", srcSock, "target", dstName, "target_socket", dstSock)

	err := c.backend.Disconnect(srcName, srcSock, dstName, dstSock)
	if err != nil {
		c.reject("Disconnect failed", fmt.Errorf("%s.%s => %s.%s: %w", srcName, srcSock, dstName, dstSock, err),
			"element", srcName, "socket", srcSock)
	}
	return errors.Join(err, c.resync())
}

// RemoveElement removes one element. Unknown names are ignored.
func (c *Canvas) RemoveElement(name string) error {
	if c.backend.IsActive() {
		return fmt.Errorf("remove %s: %w", name, ErrActive)
	}
	if _, ok := c.snap.Lookup(name); !ok {
		return nil
	}
	err := c.remove(name)
	return errors.Join(err, c.resync())
}

// RemoveSelected removes every selected element. The names are taken
// before the first removal, so a refused removal is reported once.
func (c *Canvas) RemoveSelected() error {
	if c.backend.IsActive() {
		return fmt.Errorf("remove selected: %w", ErrActive)
	}
	names := c.layout.Selected()
	if len(names) == 0 {
		return nil
	}
	var errs []error
	for _, name := range names {
		if err := c.remove(name); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, c.resync())
	return errors.Join(errs...)
}

func (c *Canvas) remove(name string) error {
	c.log.Info("remove element", "element", name)
	if err := c.backend.RemoveElement(name); err != nil {
		c.reject("Element removal failed", fmt.Errorf("%s: %w", name, err), "element", name)
		return err
	}
	return nil
}

// SocketTemplates lists the sockets element can create on request.
func (c *Canvas) SocketTemplates(element string) ([]graph.Template, error) {
	return c.backend.SocketTemplates(element)
}

// RequestSocket creates a socket on element from template.
func (c *Canvas) RequestSocket(element, template string) error {
	err := c.backend.RequestAdditionalSocket(element, template)
	if err != nil {
		c.reject("Request socket failed", fmt.Errorf("%s %s: %w", element, template, err), "element", element)
	}
	return errors.Join(err, c.resync())
}

// Render attaches the highest ranked kind that can take a link from
// element.socket. Permissive skips caps compatibility.
func (c *Canvas) Render(element, socket string, permissive bool) error {
	for _, kind := range c.backend.Kinds() {
		if c.backend.CanConnect(element, socket, kind, permissive) {
			return c.Attach(element, socket, kind)
		}
	}
	c.log.Info("render: no candidate", "element", element, "socket", socket, "permissive", permissive)
	return fmt.Errorf("render %s.%s: %w", element, socket, ErrNoCandidate)
}

// Attach adds an element of kind and links its first free socket of the
// opposite direction to element.socket.
func (c *Canvas) Attach(element, socket, kind string) error {
	ref, ok := c.snap.Resolve(element, socket)
	if !ok {
		return fmt.Errorf("attach %s to %s.%s: %w", kind, element, socket, ErrUnresolved)
	}
	dir := c.snap.SocketAt(ref).Direction

	name, err := c.backend.AddElement(kind)
	if err != nil {
		c.reject("Add element failed", fmt.Errorf("%s: %w", kind, err), "kind", kind)
		return errors.Join(err, c.resync())
	}
	c.log.Info("element added", "element", name, "kind", kind)
	if err := c.resync(); err != nil {
		return err
	}

	target, ok := c.freeSocket(name, dir.Opposite())
	if !ok {
		return fmt.Errorf("attach %s to %s.%s: no free %s socket: %w", name, element, socket, dir.Opposite(), ErrUnresolved)
	}
	src, srcSock, dst, dstSock := element, socket, name, target
	if dir == graph.In {
		src, srcSock, dst, dstSock = name, target, element, socket
	}
	err = c.backend.Connect(src, srcSock, dst, dstSock)
	if err != nil {
		c.reject("Connection failed", fmt.Errorf("%s.%s => %s.%s: %w", src, srcSock, dst, dstSock, err),
			"element", src, "socket", srcSock)
	}
	return errors.Join(err, c.resync())
}

func (c *Canvas) freeSocket(element string, dir graph.Direction) (string, bool) {
	id, ok := c.snap.Lookup(element)
	if !ok {
		return "", false
	}
	for _, s := range c.snap.Element(id).Sockets {
		if s.Direction == dir && !s.Peer.Connected() {
			return s.Name, true
		}
	}
	return "", false
}

// RequestAddElement asks the shell for an element picker.
func (c *Canvas) RequestAddElement() { c.shell.RequestAddElement() }

// RequestClearGraph asks the shell to clear the graph.
func (c *Canvas) RequestClearGraph() { c.shell.RequestClearGraph() }
