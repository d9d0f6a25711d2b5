package canvas

import (
	"fmt"
	"image"
	"slices"
)

// ActionKind names a context menu entry.
type ActionKind int

const (
	ActionRemoveSelected ActionKind = iota
	ActionRender
	ActionRenderAnyway
	ActionSocketProperties
	ActionElementProperties
	ActionRemove
	ActionRequestSocket
	ActionDisconnect
	ActionAddElement
	ActionClearGraph
	ActionTypefind
)

// TypefindKind is the kind ActionTypefind attaches to a socket.
const TypefindKind = "typefind"

var actionLabels = [...]string{
	ActionRemoveSelected:    "Remove selected",
	ActionRender:            "Render",
	ActionRenderAnyway:      "Render anyway",
	ActionSocketProperties:  "Socket properties",
	ActionElementProperties: "Element properties",
	ActionRemove:            "Remove",
	ActionRequestSocket:     "Request socket",
	ActionDisconnect:        "Disconnect",
	ActionAddElement:        "Add element",
	ActionClearGraph:        "Clear graph",
	ActionTypefind:          "Typefind",
}

func (k ActionKind) String() string {
	if k >= 0 && int(k) < len(actionLabels) {
		return actionLabels[k]
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is one entry of a context menu. Element and Socket identify the
// target; a disabled action is shown but refused by Invoke.
type Action struct {
	Kind            ActionKind
	Element, Socket string
	Disabled        bool
}

// Label is the menu text.
func (a Action) Label() string { return a.Kind.String() }

// Actions returns the context actions for a secondary click at pt. The
// selection is left alone.
func (c *Canvas) Actions(pt image.Point) []Action {
	active := c.backend.IsActive()

	if sel := c.layout.Selected(); len(sel) > 1 {
		return []Action{{Kind: ActionRemoveSelected, Disabled: active}}
	}

	hit := c.layout.Resolve(c.snap, pt)
	switch {
	case hit.OnSocket():
		actions := []Action{
			{Kind: ActionRender, Element: hit.Element, Socket: hit.Socket},
			{Kind: ActionRenderAnyway, Element: hit.Element, Socket: hit.Socket},
			{Kind: ActionSocketProperties, Element: hit.Element, Socket: hit.Socket},
		}
		if slices.Contains(c.backend.Kinds(), TypefindKind) {
			actions = append(actions, Action{Kind: ActionTypefind, Element: hit.Element, Socket: hit.Socket})
		}
		return actions
	case !hit.None():
		return []Action{
			{Kind: ActionElementProperties, Element: hit.Element},
			{Kind: ActionRemove, Element: hit.Element, Disabled: active},
			{Kind: ActionRequestSocket, Element: hit.Element},
		}
	}

	if lk, ok := c.layout.NearestLink(c.snap, pt, c.opts.LinkHitDistance); ok {
		return []Action{{
			Kind:     ActionDisconnect,
			Element:  c.snap.Element(lk.From.Element).Name,
			Socket:   c.snap.SocketAt(lk.From).Name,
			Disabled: active,
		}}
	}
	return []Action{{Kind: ActionAddElement}, {Kind: ActionClearGraph}}
}

// Invoke runs an action returned by Actions.
func (c *Canvas) Invoke(a Action) error {
	if a.Disabled {
		return fmt.Errorf("%s: %w", a.Kind, ErrActive)
	}
	switch a.Kind {
	case ActionRemoveSelected:
		return c.RemoveSelected()
	case ActionRender:
		return c.Render(a.Element, a.Socket, false)
	case ActionRenderAnyway:
		return c.Render(a.Element, a.Socket, true)
	case ActionSocketProperties:
		c.shell.ShowSocketProperties(a.Element, a.Socket)
	case ActionElementProperties:
		c.shell.ShowElementProperties(a.Element)
	case ActionRemove:
		return c.RemoveElement(a.Element)
	case ActionRequestSocket:
		tmpls, err := c.SocketTemplates(a.Element)
		if err != nil {
			c.reject("Request socket failed", fmt.Errorf("%s: %w", a.Element, err), "element", a.Element)
			return err
		}
		c.shell.ShowSocketTemplates(a.Element, tmpls)
	case ActionDisconnect:
		return c.Disconnect(a.Element, a.Socket)
	case ActionAddElement:
		c.RequestAddElement()
	case ActionClearGraph:
		c.RequestClearGraph()
	case ActionTypefind:
		return c.Attach(a.Element, a.Socket, TypefindKind)
	default:
		return fmt.Errorf("unknown action %d", int(a.Kind))
	}
	return nil
}
