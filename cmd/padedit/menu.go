package main

import (
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type menuItem struct {
	label    string
	disabled bool
}

// menu is a list overlay. Context menus open at the clicked cell; pickers
// with centred set open in the middle of the screen.
type menu struct {
	title    string
	items    []menuItem
	selected int
	x, y     int
	centred  bool
	choose   func(i int)
}

func (ed *Editor) openMenu(m *menu) {
	if len(m.items) == 0 {
		return
	}
	ed.menu = m
	ed.mode = ModeMenu
}

func (ed *Editor) closeMenu() {
	ed.menu = nil
	ed.mode = ModeCanvas
}

// activate closes the menu and runs item i, which may open another.
func (ed *Editor) activate(i int) {
	m := ed.menu
	if i < 0 || i >= len(m.items) || m.items[i].disabled {
		return
	}
	ed.closeMenu()
	m.choose(i)
}

// rect is the menu box on a w x h screen, borders included.
func (m *menu) rect(w, h int) image.Rectangle {
	width := runewidth.StringWidth(m.title) + 4
	for _, it := range m.items {
		width = max(width, runewidth.StringWidth(it.label)+4)
	}
	width = max(width, 20)
	height := len(m.items) + 2

	x, y := m.x, m.y
	if m.centred {
		x, y = (w-width)/2, (h-height)/2
	}
	x = max(0, min(x, w-width))
	y = max(0, min(y, h-height))
	return image.Rect(x, y, x+width, y+height)
}

// itemAt returns the item index under cell x, y, or -1.
func (m *menu) itemAt(x, y, w, h int) int {
	r := m.rect(w, h)
	if x <= r.Min.X || x >= r.Max.X-1 {
		return -1
	}
	i := y - r.Min.Y - 1
	if i < 0 || i >= len(m.items) {
		return -1
	}
	return i
}

func (ed *Editor) handleMenuKey(ev *tcell.EventKey) {
	m := ed.menu
	switch ev.Key() {
	case tcell.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
	case tcell.KeyDown:
		if m.selected < len(m.items)-1 {
			m.selected++
		}
	case tcell.KeyEnter:
		ed.activate(m.selected)
	case tcell.KeyEscape:
		ed.closeMenu()
	}
}

func (ed *Editor) handleMenuMouse(x, y int, buttons tcell.ButtonMask) {
	w, h := ed.screen.Size()
	i := ed.menu.itemAt(x, y, w, h)

	if buttons&tcell.Button1 == 0 {
		ed.leftMouseDown = false
		ed.rightMouseDown = buttons&tcell.Button2 != 0
		if i >= 0 {
			ed.menu.selected = i
		}
		return
	}
	if ed.leftMouseDown {
		return
	}
	ed.leftMouseDown = true
	if i < 0 {
		ed.closeMenu()
		return
	}
	ed.activate(i)
}
