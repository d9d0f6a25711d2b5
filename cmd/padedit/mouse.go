package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/ha1tch/padgraph/pkg/canvas"
)

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch ed.mode {
	case ModeMenu:
		ed.handleMenuMouse(x, y, buttons)
		return
	case ModeInfo, ModeInput:
		pressed := buttons&(tcell.Button1|tcell.Button2) != 0
		if ed.mode == ModeInfo && pressed && !ed.leftMouseDown && !ed.rightMouseDown {
			ed.mode = ModeCanvas
		}
		ed.leftMouseDown = buttons&tcell.Button1 != 0
		ed.rightMouseDown = buttons&tcell.Button2 != 0
		return
	}

	// Middle drag pans the viewport
	if buttons&tcell.Button3 != 0 {
		if !ed.middleMouseDown {
			ed.middleMouseDown = true
			ed.middleDownX, ed.middleDownY = x, y
			ed.panStart = ed.view.offset
			return
		}
		ed.view.offset = ed.panStart
		ed.view.pan(ed.middleDownX-x, ed.middleDownY-y, ed.canvas.Options().Bounds)
		return
	}
	ed.middleMouseDown = false

	if buttons&tcell.WheelUp != 0 {
		ed.view.pan(0, -3, ed.canvas.Options().Bounds)
		return
	}
	if buttons&tcell.WheelDown != 0 {
		ed.view.pan(0, 3, ed.canvas.Options().Bounds)
		return
	}

	// Presses outside the canvas area are ignored; drags keep tracking.
	inCanvas := ed.view.contains(x, y)
	pt := ed.view.point(x, y)

	switch {
	case buttons&tcell.Button2 != 0:
		if !ed.rightMouseDown && inCanvas {
			ed.rightMouseDown = true
			ed.openContextMenu(x, y)
		}
	case buttons&tcell.Button1 != 0:
		if !ed.leftMouseDown {
			if !inCanvas {
				return
			}
			ed.leftMouseDown = true
			ed.pointerEvent(ed.canvas.PointerDown(pt))
			return
		}
		ed.pointerEvent(ed.canvas.PointerMove(pt))
	default:
		ed.rightMouseDown = false
		if ed.leftMouseDown {
			ed.leftMouseDown = false
			ed.pointerEvent(ed.canvas.PointerUp(pt))
			return
		}
		if inCanvas {
			ed.pointerEvent(ed.canvas.PointerMove(pt))
		}
	}
}

// pointerEvent reports gesture outcomes on the status bar.
func (ed *Editor) pointerEvent(ev canvas.Event) {
	switch ev.Kind {
	case canvas.EventConnect:
		if ev.Err == nil {
			ed.modified = true
			ed.showMessage(fmt.Sprintf("Linked %s.%s => %s.%s", ev.Element, ev.Socket, ev.Target, ev.TargetSocket), MsgSuccess)
		}
	case canvas.EventSelectRect:
		ed.showMessage(fmt.Sprintf("%d selected", len(ev.Selected)), MsgInfo)
	case canvas.EventToggleSelect:
		ed.showMessage(ev.Element+" selected", MsgInfo)
	case canvas.EventHover:
		if tip := ed.canvas.Tooltip(); tip != "" {
			ed.showMessage(ev.Element+"."+ev.Socket+": "+tip, MsgInfo)
		}
	}
}

// openContextMenu shows the canvas actions for the cell at x, y.
func (ed *Editor) openContextMenu(x, y int) {
	actions := ed.canvas.Actions(ed.view.point(x, y))
	items := make([]menuItem, len(actions))
	for i, a := range actions {
		items[i] = menuItem{label: a.Label(), disabled: a.Disabled}
	}
	ed.openMenu(&menu{
		items: items,
		x:     x,
		y:     y,
		choose: func(i int) {
			ed.edit(func() error { return ed.canvas.Invoke(actions[i]) })
		},
	})
}
