// Command padedit is a TUI editor for pipeline graphs.
package main

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/ha1tch/padgraph/internal/config"
	"github.com/ha1tch/padgraph/internal/logging"
	"github.com/ha1tch/padgraph/pkg/canvas"
	"github.com/ha1tch/padgraph/pkg/graph"
	"github.com/ha1tch/padgraph/pkg/graphfile"
	"golang.org/x/term"
)

// Editor holds the TUI state around one canvas.
type Editor struct {
	screen     tcell.Screen
	log        *slog.Logger
	config     *config.Config
	configPath string

	desc     *graphfile.Description
	backend  *graph.Memory
	canvas   *canvas.Canvas
	filename string
	modified bool

	mode              Mode
	message           string
	messageType       MessageType
	messageFlashStart int64 // Unix milliseconds when message was shown

	view         viewport
	sidebarWidth int

	// Mouse button tracking
	leftMouseDown   bool
	rightMouseDown  bool
	middleMouseDown bool
	middleDownX     int
	middleDownY     int
	panStart        image.Point // viewport offset when the middle drag started

	// Overlays
	menu      *menu
	infoTitle string
	infoLines []string

	// Input state
	inputBuffer string
	inputPrompt string
	inputAction func(string)
}

// Mode represents editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeMenu  // context menu or picker overlay
	ModeInput // text prompt
	ModeInfo  // properties popup
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

func main() {
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.Default()
	}
	log := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})

	var filename string
	desc := newDescription()
	if len(os.Args) > 1 {
		filename = os.Args[1]
		d, err := graphfile.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
			os.Exit(1)
		}
		if len(d.Kinds) == 0 {
			d.Kinds = defaultKinds()
		}
		desc = d
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "padedit needs an interactive terminal; use padgraph for scripted work")
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	ed, err := newEditor(screen, cfg, log, desc)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
		os.Exit(1)
	}
	ed.configPath = cfgPath
	ed.filename = filename
	log.Info("editor started", "file", filename, "elements", ed.canvas.Snapshot().Len())

	ed.run()

	screen.Fini()
}

// newEditor builds an editor over desc drawing to screen.
func newEditor(screen tcell.Screen, cfg *config.Config, log *slog.Logger, desc *graphfile.Description) (*Editor, error) {
	backend, err := desc.Backend()
	if err != nil {
		return nil, err
	}
	ed := &Editor{
		screen:       screen,
		log:          log,
		config:       cfg,
		desc:         desc,
		backend:      backend,
		sidebarWidth: 30,
	}

	opts := canvas.DefaultOptions()
	opts.Bounds = cfg.Canvas.Bounds()
	opts.Logger = log
	ed.canvas = canvas.New(backend, ed, opts)
	if _, err := ed.canvas.Refresh(); err != nil {
		return nil, err
	}
	ed.resize()
	return ed, nil
}

func (ed *Editor) run() {
	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
			ed.resize()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			// Redraw for the message flash
		case nil:
			return
		}
	}
}

// resize fits the viewport to the screen: the sidebar takes the right
// edge and the help and status bars the last two rows.
func (ed *Editor) resize() {
	w, h := ed.screen.Size()
	ed.view.width = max(0, w-ed.sidebarWidth)
	ed.view.height = max(0, h-2)
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlQ {
		return ed.quit()
	}
	if ev.Key() == tcell.KeyCtrlS {
		ed.save()
		return false
	}
	if ev.Key() == tcell.KeyCtrlE {
		ed.export()
		return false
	}

	switch ed.mode {
	case ModeCanvas:
		return ed.handleCanvasKey(ev)
	case ModeMenu:
		ed.handleMenuKey(ev)
	case ModeInput:
		ed.handleInputKey(ev)
	case ModeInfo:
		ed.mode = ModeCanvas
	}
	return false
}

func (ed *Editor) handleCanvasKey(ev *tcell.EventKey) bool {
	bounds := ed.canvas.Options().Bounds
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.canvas.Cancel()
		ed.canvas.Layout().ClearSelection()
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.edit(ed.canvas.RemoveSelected)
	case tcell.KeyUp:
		ed.view.pan(0, -1, bounds)
	case tcell.KeyDown:
		ed.view.pan(0, 1, bounds)
	case tcell.KeyLeft:
		ed.view.pan(-1, 0, bounds)
	case tcell.KeyRight:
		ed.view.pan(1, 0, bounds)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a':
			ed.canvas.RequestAddElement()
		case 'c':
			ed.canvas.RequestClearGraph()
		case 'p':
			ed.togglePlayback()
		case 'r':
			ed.reload()
		case 'q':
			return ed.quit()
		}
	}
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		action := ed.inputAction
		ed.mode = ModeCanvas
		ed.inputAction = nil
		if action != nil {
			action(ed.inputBuffer)
		}
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
		ed.inputAction = nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
}

// prompt opens the input box; action runs with the text on Enter.
func (ed *Editor) prompt(text, initial string, action func(string)) {
	ed.inputPrompt = text
	ed.inputBuffer = initial
	ed.inputAction = action
	ed.mode = ModeInput
}

func (ed *Editor) quit() bool {
	if !ed.modified {
		return true
	}
	ed.prompt("Unsaved changes. Quit anyway? (y/n): ", "", func(s string) {
		if s == "y" || s == "Y" {
			ed.screen.Fini()
			os.Exit(0)
		}
	})
	return false
}

// togglePlayback flips the pipeline between Null and Playing. Removals
// and disconnects are refused while it plays.
func (ed *Editor) togglePlayback() {
	if ed.backend.IsActive() {
		ed.backend.SetState(graph.StateNull)
	} else {
		ed.backend.SetState(graph.StatePlaying)
	}
	ed.log.Info("playback state", "state", ed.backend.State().String())
	ed.showMessage("Pipeline "+ed.backend.State().String(), MsgInfo)
}

// reload re-reads the backend snapshot.
func (ed *Editor) reload() {
	changed, err := ed.canvas.Refresh()
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	if changed {
		ed.showMessage("Layout updated", MsgInfo)
	}
}

// edit runs a canvas command and marks the file modified when the graph
// changed. Backend refusals already reached the status bar through Warn.
func (ed *Editor) edit(cmd func() error) {
	before := ed.canvas.Snapshot()
	err := cmd()
	if !graph.Equivalent(before, ed.canvas.Snapshot()) {
		ed.modified = true
	}
	switch {
	case err == nil:
	case errors.Is(err, canvas.ErrActive):
		ed.showMessage("Stop the pipeline first (p)", MsgWarning)
	case errors.Is(err, canvas.ErrNoCandidate):
		ed.showMessage("No element can take that socket", MsgWarning)
	case errors.Is(err, canvas.ErrUnresolved):
		ed.showMessage(err.Error(), MsgWarning)
	default:
		ed.log.Debug("command failed", "error", err)
	}
}

func (ed *Editor) save() {
	if ed.filename == "" {
		ed.saveAs()
		return
	}
	if err := ed.saveFile(ed.filename); err != nil {
		ed.showMessage(fmt.Sprintf("Save failed: %v", err), MsgError)
		return
	}
	ed.showMessage("Saved "+filepath.Base(ed.filename), MsgSuccess)
}

func (ed *Editor) saveAs() {
	initial := filepath.Join(ed.config.LastDir, "pipeline.yaml")
	ed.prompt("Save as: ", initial, func(path string) {
		if path == "" {
			return
		}
		if err := ed.saveFile(path); err != nil {
			ed.showMessage(fmt.Sprintf("Save failed: %v", err), MsgError)
			return
		}
		ed.filename = path
		ed.showMessage("Saved "+filepath.Base(path), MsgSuccess)
	})
}

// saveFile writes the current graph to path and remembers it in the
// settings file.
func (ed *Editor) saveFile(path string) error {
	ed.desc.Update(ed.canvas.Snapshot())
	ed.desc.SetState(ed.backend.State())
	if err := graphfile.WriteFile(path, ed.desc); err != nil {
		return err
	}
	ed.modified = false
	ed.log.Info("saved", "file", path)

	ed.config.LastFile = path
	ed.config.LastDir = filepath.Dir(path)
	if ed.configPath != "" {
		if err := config.Save(ed.configPath, ed.config); err != nil {
			ed.log.Warn("saving config", "error", err)
		}
	}
	return nil
}

// export renders the canvas next to the graph file in the configured
// format.
func (ed *Editor) export() {
	if ed.canvas.Snapshot().Len() == 0 {
		ed.showMessage("Canvas is empty - nothing to render", MsgError)
		return
	}
	base := ed.filename
	if base == "" {
		base = filepath.Join(ed.config.LastDir, "pipeline")
	}
	out := base[:len(base)-len(filepath.Ext(base))] + "." + ed.config.Render.Format
	if err := ed.exportFile(out); err != nil {
		ed.showMessage(fmt.Sprintf("Render failed: %v", err), MsgError)
		return
	}
	ed.showMessage("Rendered "+filepath.Base(out), MsgSuccess)
}

func (ed *Editor) exportFile(path string) error {
	scene := ed.canvas.Scene()
	title := ed.desc.Name
	if ed.config.Render.Format == "svg" {
		opts := graphfile.DefaultSVGOptions()
		opts.Title = title
		return os.WriteFile(path, []byte(graphfile.GenerateSVG(scene, opts)), 0644)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	opts := graphfile.DefaultPNGOptions()
	opts.Width, opts.Height, opts.Title = ed.config.Render.Width, ed.config.Render.Height, title
	if err := graphfile.RenderPNG(scene, f, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	if !flashes(msgType) {
		ed.messageFlashStart = 0
		return
	}
	ed.messageFlashStart = time.Now().UnixMilli()
	go func(screen tcell.Screen) {
		for range flashDuration / flashPhase {
			time.Sleep(flashPhase * time.Millisecond)
			screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}(ed.screen)
}
