package main

import (
	"fmt"
	"log/slog"

	"github.com/ha1tch/padgraph/internal/logging"
	"github.com/ha1tch/padgraph/pkg/canvas"
	"github.com/ha1tch/padgraph/pkg/graph"
	"github.com/ha1tch/padgraph/pkg/graphfile"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// app carries state shared by the subcommands.
type app struct {
	logLevel  string
	logFormat string
	log       *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logging.NewNop()}
	root := &cobra.Command{
		Use:   "padgraph",
		Short: "padgraph - pipeline graph toolkit",
		Long: brand.Sprint("padgraph") + " lays out, checks and renders pipeline graph descriptions\n" +
			subtle.Sprint("Files are YAML (.yaml, .yml) or JSON (.json)"),
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.log = logging.NewWriter(cmd.ErrOrStderr(), logging.Options{Level: a.logLevel, Format: a.logFormat})
		},
	}
	root.SetVersionTemplate("padgraph {{ .Version }}\n")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		a.validateCmd(),
		a.layoutCmd(),
		a.renderCmd(),
		a.dotCmd(),
		a.hitCmd(),
	)
	return root
}

// session is a loaded description with a canvas laid out over it.
type session struct {
	desc   *graphfile.Description
	canvas *canvas.Canvas
}

func (a *app) open(path string) (*session, error) {
	desc, err := graphfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	backend, err := desc.Backend()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	opts := canvas.DefaultOptions()
	opts.Logger = a.log
	c := canvas.New(backend, nil, opts)
	if _, err := c.Refresh(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.log.Debug("description loaded", "file", path, "elements", c.Snapshot().Len())
	return &session{desc: desc, canvas: c}, nil
}

// title is the diagram title: the description name, or a summary.
func (s *session) title() string {
	if s.desc.Name != "" {
		return s.desc.Name
	}
	return fmt.Sprintf("%d elements", s.canvas.Snapshot().Len())
}

// linkCount counts connections once, from their Out side.
func linkCount(snap *graph.Snapshot) int {
	n := 0
	for _, lk := range snap.Links() {
		if snap.SocketAt(lk.From).Direction == graph.Out {
			n++
		}
	}
	return n
}

func endpoint(snap *graph.Snapshot, ref graph.SocketRef) string {
	return snap.Element(ref.Element).Name + "." + snap.SocketAt(ref).Name
}
