package main

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/ha1tch/padgraph/pkg/canvas"
	"github.com/ha1tch/padgraph/pkg/graph"
	"github.com/mattn/go-runewidth"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleMenu       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleMenuOff    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleElement    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleElementSel = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleKind       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSocket     = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleLink       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleRubber     = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200)) // Lilac
	styleSelectBox  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray) // Help bar on default background
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Status messages other than info flash: normal, inverted, normal,
// inverted, then normal again.
const (
	flashDuration = 500 // ms
	flashPhase    = 125
)

func flashes(t MessageType) bool {
	return t != MsgInfo
}

func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashDuration {
		return false
	}
	phase := elapsed / flashPhase
	return phase == 1 || phase == 3
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawCanvas(ed.canvas.Scene())
	ed.drawSidebar(w, h)

	switch ed.mode {
	case ModeMenu:
		ed.drawMenu(w, h)
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeInfo:
		ed.drawInfo(w, h)
	}

	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawCanvas(scene canvas.Scene) {
	// Links first so elements render on top
	for _, lk := range scene.Links {
		ed.drawWire(lk.Wire, styleLink)
	}
	if rb := scene.RubberBand; rb != nil {
		ed.drawLine(rb[0], rb[1], styleRubber)
	}

	for _, e := range scene.Elements {
		ed.drawElement(e)
	}

	if box := scene.SelectionBox; box != nil {
		ed.drawFrame(ed.view.cells(*box), '┄', '┆', styleSelectBox)
	}
}

func (ed *Editor) drawElement(e canvas.SceneElement) {
	r := ed.view.cells(e.Rect)
	style := styleElement
	if e.Selected {
		style = styleElementSel
	}
	ed.drawFrame(r, '─', '│', style)
	ed.setCell(r.Min.X, r.Min.Y, '┌', style)
	ed.setCell(r.Max.X-1, r.Min.Y, '┐', style)
	ed.setCell(r.Min.X, r.Max.Y-1, '└', style)
	ed.setCell(r.Max.X-1, r.Max.Y-1, '┘', style)
	for y := r.Min.Y + 1; y < r.Max.Y-1; y++ {
		for x := r.Min.X + 1; x < r.Max.X-1; x++ {
			ed.setCell(x, y, ' ', styleDefault)
		}
	}

	inner := r.Dx() - 2
	if inner > 0 && r.Dy() > 2 {
		ed.drawCentred(r.Min.X+1, r.Min.Y+1, inner, e.Name, style)
		if r.Dy() > 3 {
			ed.drawCentred(r.Min.X+1, r.Min.Y+2, inner, e.Kind, styleKind)
		}
	}

	for _, s := range e.Sockets {
		x, y := ed.view.cell(s.At)
		glyph := '○'
		if s.Linked {
			glyph = '●'
		}
		ed.setCell(x, y, glyph, styleSocket)
	}
}

// drawWire draws a link curve through the cells it crosses. The socket
// glyphs drawn later mark both ends.
func (ed *Editor) drawWire(w canvas.Wire, style tcell.Style) {
	for _, p := range w.Flatten(cellW / 2) {
		x, y := ed.view.cell(image.Pt(int(math.Round(p.X)), int(math.Round(p.Y))))
		ed.setCell(x, y, '·', style)
	}
}

// drawLine draws a straight cell line from a to b with an arrow head.
func (ed *Editor) drawLine(a, b image.Point, style tcell.Style) {
	x0, y0 := ed.view.cell(a)
	x1, y1 := ed.view.cell(b)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	head := '▸'
	if sx < 0 {
		head = '◂'
	}

	e := dx + dy
	for {
		if x0 == x1 && y0 == y1 {
			ed.setCell(x0, y0, head, style)
			return
		}
		ed.setCell(x0, y0, '·', style)
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// drawFrame draws the border of cell rectangle r.
func (ed *Editor) drawFrame(r image.Rectangle, horiz, vert rune, style tcell.Style) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		ed.setCell(x, r.Min.Y, horiz, style)
		ed.setCell(x, r.Max.Y-1, horiz, style)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		ed.setCell(r.Min.X, y, vert, style)
		ed.setCell(r.Max.X-1, y, vert, style)
	}
}

// setCell draws one canvas cell, clipped to the viewport.
func (ed *Editor) setCell(x, y int, r rune, style tcell.Style) {
	if ed.view.contains(x, y) {
		ed.screen.SetContent(x, y, r, nil, style)
	}
}

func (ed *Editor) drawCentred(x, y, width int, s string, style tcell.Style) {
	s = runewidth.Truncate(s, width, "…")
	x += (width - runewidth.StringWidth(s)) / 2
	for _, r := range s {
		ed.setCell(x, y, r, style)
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) drawSidebar(w, h int) {
	dividerX := w - ed.sidebarWidth
	for y := 0; y < h-2; y++ {
		ed.screen.SetContent(dividerX, y, '│', nil, styleBorder)
	}
	x := dividerX + 2
	width := ed.sidebarWidth - 3
	y := 0
	line := func(s string, style tcell.Style) bool {
		if y >= h-3 {
			return false
		}
		ed.drawString(x, y, runewidth.Truncate(s, width, "…"), style)
		y++
		return true
	}

	snap := ed.canvas.Snapshot()
	line(fmt.Sprintf("Pipeline: %s", ed.backend.State()), styleSidebarH)
	y++

	line("Elements:", styleSidebarH)
	selected := make(map[string]bool)
	for _, name := range ed.canvas.Layout().Selected() {
		selected[name] = true
	}
	for i := range snap.Len() {
		e := snap.Element(graph.ElementID(i))
		style := styleSidebar
		if selected[e.Name] {
			style = styleElementSel
		}
		if !line("  "+e.Name+" ("+e.Kind+")", style) {
			return
		}
	}
	y++

	line("Links:", styleSidebarH)
	for _, lk := range snap.Links() {
		from := snap.SocketAt(lk.From)
		if from.Direction != graph.Out {
			continue
		}
		to := snap.SocketAt(lk.To)
		text := fmt.Sprintf("  %s.%s → %s.%s",
			snap.Element(lk.From.Element).Name, from.Name,
			snap.Element(lk.To.Element).Name, to.Name)
		if !line(text, styleSidebar) {
			return
		}
	}
}

func (ed *Editor) drawMenu(w, h int) {
	m := ed.menu
	r := m.rect(w, h)
	ed.drawBox(r, m.title, styleDefault)
	for i, it := range m.items {
		style := styleMenu
		switch {
		case it.disabled:
			style = styleMenuOff
		case i == m.selected:
			style = styleMenuSel
		}
		text := fmt.Sprintf(" %-*s", r.Dx()-3, it.label)
		ed.drawString(r.Min.X+1, r.Min.Y+1+i, text, style)
	}
}

func (ed *Editor) drawInfo(w, h int) {
	width := runewidth.StringWidth(ed.infoTitle) + 6
	for _, l := range ed.infoLines {
		width = max(width, runewidth.StringWidth(l)+4)
	}
	width = min(width, w)
	height := len(ed.infoLines) + 2
	x, y := max(0, (w-width)/2), max(0, (h-height)/2)
	r := image.Rect(x, y, x+width, y+height)

	ed.drawBox(r, ed.infoTitle, styleDefault)
	for i, l := range ed.infoLines {
		ed.drawString(r.Min.X+2, r.Min.Y+1+i, runewidth.Truncate(l, width-4, "…"), styleSidebar)
	}
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := min(60, w)
	r := image.Rect((w-boxW)/2, (h-3)/2, (w-boxW)/2+boxW, (h-3)/2+3)
	ed.drawBox(r, "", styleInput)
	ed.drawString(r.Min.X+2, r.Min.Y+1, ed.inputPrompt, styleInput)
	ed.drawString(r.Min.X+2+runewidth.StringWidth(ed.inputPrompt), r.Min.Y+1, ed.inputBuffer+"_", styleInput)
}

// drawBox draws a bordered, filled box with an optional title.
func (ed *Editor) drawBox(r image.Rectangle, title string, fill tcell.Style) {
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	ed.screen.SetContent(x0, y0, '┌', nil, styleBorder)
	ed.screen.SetContent(x1, y0, '┐', nil, styleBorder)
	ed.screen.SetContent(x0, y1, '└', nil, styleBorder)
	ed.screen.SetContent(x1, y1, '┘', nil, styleBorder)
	for x := x0 + 1; x < x1; x++ {
		ed.screen.SetContent(x, y0, '─', nil, styleBorder)
		ed.screen.SetContent(x, y1, '─', nil, styleBorder)
	}
	for y := y0 + 1; y < y1; y++ {
		ed.screen.SetContent(x0, y, '│', nil, styleBorder)
		ed.screen.SetContent(x1, y, '│', nil, styleBorder)
		for x := x0 + 1; x < x1; x++ {
			ed.screen.SetContent(x, y, ' ', nil, fill)
		}
	}

	if title != "" {
		title = runewidth.Truncate(title, r.Dx()-4, "…")
		tx := x0 + (r.Dx()-runewidth.StringWidth(title)-2)/2
		ed.drawString(tx, y0, " "+title+" ", styleSidebarH)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	// File info
	fileInfo := "[New]"
	if ed.filename != "" {
		if len(ed.filename) > 30 {
			fileInfo = filepath.Base(ed.filename)
		} else {
			fileInfo = ed.filename
		}
	}
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if ed.messageFlashStart > 0 && flashInverted(time.Now().UnixMilli()-ed.messageFlashStart) {
			style = style.Reverse(true)
		}
		msg := runewidth.Truncate(ed.message, max(0, w/2-len(modeStr)/2-4), "…")
		ed.drawString(w-runewidth.StringWidth(msg)-2, y, msg, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) modeString() string {
	switch g := ed.canvas.Gesture().(type) {
	case canvas.MovingElement:
		return "MOVE " + g.Element
	case canvas.Connecting:
		return "LINK " + g.Element + "." + g.Socket
	case canvas.Selecting:
		return "SELECT"
	}
	switch ed.mode {
	case ModeMenu:
		return "MENU"
	case ModeInput:
		return "INPUT"
	}
	return ""
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeMenu:
		return "↑↓:Select  Enter:Confirm  Esc:Cancel"
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModeInfo:
		return "Any key:Close"
	}
	return strings.Join([]string{
		"Drag:Move/Link/Select", "Right:Menu", "A:Add", "Del:Remove", "P:Play/Stop",
		"Arrows:Pan", "^S:Save", "^E:Render", "Q:Quit",
	}, "  ")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
