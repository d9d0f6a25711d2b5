package main

import (
	"fmt"

	"github.com/ha1tch/padgraph/pkg/canvas"
	"github.com/ha1tch/padgraph/pkg/graph"
)

// The editor is the canvas shell: it shows pickers, prompts and
// properties for requests the canvas cannot serve itself.
var _ canvas.Shell = (*Editor)(nil)

// RequestAddElement opens the kind picker.
func (ed *Editor) RequestAddElement() {
	kinds := ed.backend.Kinds()
	if len(kinds) == 0 {
		ed.showMessage("No element kinds available", MsgWarning)
		return
	}
	items := make([]menuItem, len(kinds))
	for i, k := range kinds {
		items[i] = menuItem{label: k}
	}
	ed.openMenu(&menu{
		title:   "Add element",
		items:   items,
		centred: true,
		choose: func(i int) {
			ed.edit(func() error { return ed.addElement(kinds[i]) })
		},
	})
}

func (ed *Editor) addElement(kind string) error {
	name, err := ed.backend.AddElement(kind)
	if err != nil {
		ed.log.Warn("Add element failed", "kind", kind, "error", err)
		ed.Warn("Add element failed", err.Error())
		return err
	}
	ed.log.Info("element added", "element", name, "kind", kind)
	if _, err := ed.canvas.Refresh(); err != nil {
		return err
	}
	ed.showMessage("Added "+name, MsgSuccess)
	return nil
}

func (ed *Editor) RequestClearGraph() {
	if ed.backend.IsActive() {
		ed.showMessage("Stop the pipeline first (p)", MsgWarning)
		return
	}
	ed.prompt("Clear the whole graph? (y/n): ", "", func(s string) {
		if s != "y" && s != "Y" {
			return
		}
		ed.edit(func() error {
			ed.backend.Clear()
			ed.log.Info("graph cleared")
			_, err := ed.canvas.Refresh()
			return err
		})
	})
}

func (ed *Editor) Warn(title, message string) {
	ed.showMessage(title+": "+message, MsgError)
}

func (ed *Editor) ShowElementProperties(name string) {
	snap := ed.canvas.Snapshot()
	id, ok := snap.Lookup(name)
	if !ok {
		return
	}
	e := snap.Element(id)
	lines := []string{"Kind: " + e.Kind, ""}
	if len(e.Sockets) == 0 {
		lines = append(lines, "No sockets")
	}
	for _, s := range e.Sockets {
		lines = append(lines, socketLine(s))
	}
	ed.showInfo(name, lines)
}

func (ed *Editor) ShowSocketProperties(element, socket string) {
	snap := ed.canvas.Snapshot()
	ref, ok := snap.Resolve(element, socket)
	if !ok {
		return
	}
	s := snap.SocketAt(ref)
	caps := s.Caps
	if caps == "" {
		caps = "ANY"
	}
	peer := "unlinked"
	if s.Peer.Connected() {
		peer = s.Peer.Element + "." + s.Peer.Socket
	}
	ed.showInfo(element+"."+socket, []string{
		"Direction: " + s.Direction.String(),
		"Caps:      " + caps,
		"Peer:      " + peer,
	})
}

func (ed *Editor) ShowSocketTemplates(element string, templates []graph.Template) {
	if len(templates) == 0 {
		ed.showMessage(element+" has no request sockets", MsgWarning)
		return
	}
	items := make([]menuItem, len(templates))
	for i, t := range templates {
		items[i] = menuItem{label: fmt.Sprintf("%s (%s)", t.Name, t.Direction)}
	}
	ed.openMenu(&menu{
		title:   "Request socket",
		items:   items,
		centred: true,
		choose: func(i int) {
			ed.edit(func() error { return ed.canvas.RequestSocket(element, templates[i].Name) })
		},
	})
}

func (ed *Editor) showInfo(title string, lines []string) {
	ed.infoTitle = title
	ed.infoLines = lines
	ed.mode = ModeInfo
}

func socketLine(s graph.Socket) string {
	arrow := "→"
	if s.Direction == graph.In {
		arrow = "←"
	}
	line := fmt.Sprintf("%s %-10s %s", arrow, s.Name, s.Caps)
	if s.Peer.Connected() {
		line += fmt.Sprintf(" (%s.%s)", s.Peer.Element, s.Peer.Socket)
	}
	return line
}
