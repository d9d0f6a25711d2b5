package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ha1tch/padgraph/pkg/graph"
	"github.com/ha1tch/padgraph/pkg/graphfile"
	"github.com/spf13/cobra"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check that a description builds a consistent graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			s, err := a.open(args[0])
			if err != nil {
				fmt.Fprintf(out, "%s %s\n", statusIcon(false), args[0])
				return err
			}
			snap := s.canvas.Snapshot()
			if err := snap.Validate(); err != nil {
				fmt.Fprintf(out, "%s %s\n", statusIcon(false), args[0])
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(out, "%s %s: valid pipeline with %d elements, %d links\n",
				statusIcon(true), args[0], snap.Len(), linkCount(snap))
			return nil
		},
	}
}

func (a *app) layoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout FILE",
		Short: "Show where each element is placed on the canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			snap := s.canvas.Snapshot()
			fmt.Fprintf(out, "%s %s\n\n", brand.Sprint(s.title()), subtle.Sprint(args[0]))

			headers := []string{"Element", "Kind", "Rect", "In", "Out"}
			var rows [][]string
			for i, r := range s.canvas.Layout().Records() {
				e := snap.Element(graph.ElementID(i))
				in, outs := e.Counts()
				rows = append(rows, []string{
					r.Name,
					e.Kind,
					r.Rect.String(),
					strconv.Itoa(in),
					strconv.Itoa(outs),
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "  No elements.")
				return nil
			}
			table(out, headers, rows)

			fmt.Fprintln(out)
			fmt.Fprintf(out, "  extent %s · %d links\n", s.canvas.Layout().Extent(), linkCount(snap))
			return nil
		},
	}
}

func (a *app) renderCmd() *cobra.Command {
	var (
		output        string
		title         string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "render FILE -o OUT",
		Short: "Render the laid out graph to PNG or SVG",
		Long: "Render the laid out graph to an image. The format follows the\n" +
			"output extension: .png or .svg.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = s.title()
			}
			scene := s.canvas.Scene()

			switch ext := strings.ToLower(filepath.Ext(output)); ext {
			case ".png":
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				opts := graphfile.DefaultPNGOptions()
				opts.Width, opts.Height, opts.Title = width, height, title
				if err := graphfile.RenderPNG(scene, f, opts); err != nil {
					f.Close()
					return fmt.Errorf("rendering %s: %w", output, err)
				}
				if err := f.Close(); err != nil {
					return err
				}
			case ".svg":
				opts := graphfile.DefaultSVGOptions()
				opts.Title = title
				if err := os.WriteFile(output, []byte(graphfile.GenerateSVG(scene, opts)), 0644); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown output format %q: want .png or .svg", ext)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Written: %s\n", statusIcon(true), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.png or .svg)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Diagram title (default: description name)")
	cmd.Flags().IntVar(&width, "width", 0, "PNG width in pixels (0 = fit the graph)")
	cmd.Flags().IntVar(&height, "height", 0, "PNG height in pixels (0 = fit the graph)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) dotCmd() *cobra.Command {
	var output, title string
	cmd := &cobra.Command{
		Use:     "dot FILE",
		Short:   "Generate Graphviz DOT output",
		Example: "  padgraph dot pipeline.yaml | dot -Tpng -o pipeline.png",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = s.title()
			}
			dot := graphfile.GenerateDOT(s.canvas.Snapshot(), title)
			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), dot)
				return nil
			}
			return os.WriteFile(output, []byte(dot), 0644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Graph title (default: description name)")
	return cmd
}

func (a *app) hitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hit FILE X Y",
		Short: "Show what lies under a canvas point",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("y: %w", err)
			}
			s, err := a.open(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			c := s.canvas
			snap := c.Snapshot()
			pt := image.Pt(x, y)

			hit := c.Layout().Resolve(snap, pt)
			switch {
			case hit.OnSocket():
				fmt.Fprintf(out, "socket  %s\n", info.Sprint(hit.Element+"."+hit.Socket))
			case !hit.None():
				fmt.Fprintf(out, "element %s\n", info.Sprint(hit.Element))
			default:
				lk, ok := c.Layout().NearestLink(snap, pt, c.Options().LinkHitDistance)
				if !ok {
					fmt.Fprintln(out, subtle.Sprint("nothing"))
					return nil
				}
				if snap.SocketAt(lk.From).Direction != graph.Out {
					lk.From, lk.To = lk.To, lk.From
				}
				fmt.Fprintf(out, "link    %s -> %s\n", info.Sprint(endpoint(snap, lk.From)), info.Sprint(endpoint(snap, lk.To)))
			}
			return nil
		},
	}
}
