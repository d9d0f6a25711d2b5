package canvas

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ha1tch/padgraph/pkg/graph"
)

var (
	// ErrActive is returned for destructive edits while the backend runs.
	ErrActive = errors.New("graph is active")
	// ErrUnresolved is returned when a command's endpoint is not in the
	// current snapshot.
	ErrUnresolved = errors.New("endpoint not in graph")
	// ErrNoCandidate is returned by Render when no kind can attach.
	ErrNoCandidate = errors.New("no element kind fits socket")
)

// Shell receives what the canvas cannot do itself: dialogs, warnings and
// graph-wide requests.
type Shell interface {
	RequestAddElement()
	RequestClearGraph()
	Warn(title, message string)
	ShowElementProperties(element string)
	ShowSocketProperties(element, socket string)
	ShowSocketTemplates(element string, templates []graph.Template)
}

type nopShell struct{}

func (nopShell) RequestAddElement() {}
func (nopShell) RequestClearGraph() {}
func (nopShell) Warn(string, string) {}
func (nopShell) ShowElementProperties(string) {}
func (nopShell) ShowSocketProperties(string, string) {}
func (nopShell) ShowSocketTemplates(string, []graph.Template) {}

// Canvas ties a backend, a layout and the gesture state together. It is
// single-threaded: every method must be called from the one event loop
// that owns it.
type Canvas struct {
	backend graph.Backend
	shell   Shell
	log     *slog.Logger
	opts    Options

	snap    *graph.Snapshot
	layout  *Layout
	gesture Gesture
	tooltip string
}

// New creates a canvas over backend. A nil shell ignores requests; a nil
// Options.Logger discards log output.
func New(backend graph.Backend, shell Shell, opts Options) *Canvas {
	if shell == nil {
		shell = nopShell{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Canvas{
		backend: backend,
		shell:   shell,
		log:     log,
		opts:    opts,
		snap:    graph.MustSnapshot(),
		layout:  NewLayout(opts),
		gesture: Idle{},
	}
}

// Snapshot returns the cached snapshot.
func (c *Canvas) Snapshot() *graph.Snapshot { return c.snap }

// Layout returns the display records.
func (c *Canvas) Layout() *Layout { return c.layout }

// Gesture returns the gesture in progress.
func (c *Canvas) Gesture() Gesture { return c.gesture }

// Tooltip returns the caps of the socket last hovered, or "".
func (c *Canvas) Tooltip() string { return c.tooltip }

// Options returns the canvas geometry.
func (c *Canvas) Options() Options { return c.opts }

// Refresh pulls a snapshot from the backend and loads it.
func (c *Canvas) Refresh() (bool, error) {
	snap, err := c.backend.Snapshot()
	if err != nil {
		return false, fmt.Errorf("refresh: %w", err)
	}
	return c.Load(snap), nil
}

// Load replaces the cached snapshot. A structurally different snapshot
// re-lays out the canvas; a reordered one only reorders the records. It
// reports whether the layout changed.
func (c *Canvas) Load(snap *graph.Snapshot) bool {
	if snap == nil {
		snap = graph.MustSnapshot()
	}
	prev := c.snap
	c.snap = snap
	switch {
	case !graph.Equivalent(prev, snap):
		c.layout.Reconcile(snap)
		c.log.Debug("layout reconciled", "elements", snap.Len())
		return true
	case !graph.SameOrder(prev, snap):
		c.layout.Reorder(snap)
		return true
	}
	return false
}

// resync refreshes after a backend command. Refresh failures are logged
// and returned so callers can join them with the command's own error.
func (c *Canvas) resync() error {
	if _, err := c.Refresh(); err != nil {
		c.log.Error("resync failed", "error", err)
		return err
	}
	return nil
}

// reject reports a backend refusal to the shell and the log.
func (c *Canvas) reject(title string, err error, attrs ...any) {
	c.log.Warn(title, append(attrs, "error", err)...)
	c.shell.Warn(title, err.Error())
}
