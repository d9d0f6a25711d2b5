package graphfile

import (
	"fmt"
	"html"
	"image"
	"strings"

	"github.com/ha1tch/padgraph/pkg/canvas"
	"github.com/ha1tch/padgraph/pkg/graph"
)

// SVGOptions controls native SVG rendering.
type SVGOptions struct {
	Title     string // diagram title
	FontSize  int    // element label size
	TitleSize int    // 0 = FontSize + 4
	Padding   int    // padding around the scene
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		FontSize: 12,
		Padding:  20,
	}
}

// GenerateSVG renders a scene to SVG at scene scale.
func GenerateSVG(scene canvas.Scene, opts SVGOptions) string {
	if opts.FontSize == 0 {
		opts.FontSize = 12
	}
	if opts.TitleSize == 0 {
		opts.TitleSize = opts.FontSize + 4
	}

	ext := scene.Extent()
	if ext.Empty() {
		ext = image.Rect(0, 0, 1, 1)
	}
	titleH := 0
	if opts.Title != "" {
		titleH = opts.TitleSize * 2
	}
	width := ext.Dx() + 2*opts.Padding
	height := ext.Dy() + 2*opts.Padding + titleH
	// viewBox origin so scene coordinates can be written unchanged
	vx, vy := ext.Min.X-opts.Padding, ext.Min.Y-opts.Padding-titleH

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%d %d %d %d">`+"\n",
		width, height, vx, vy, width, height))
	sb.WriteString(`  <defs>
    <marker id="arrow" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">
      <polygon points="0 0, 10 3.5, 0 7" fill="#333"/>
    </marker>
  </defs>
`)
	sb.WriteString(fmt.Sprintf(`  <rect x="%d" y="%d" width="%d" height="%d" fill="white"/>`+"\n", vx, vy, width, height))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`  <text x="%d" y="%d" text-anchor="middle" font-family="Helvetica, Arial, sans-serif" font-size="%d" font-weight="bold" fill="#333">%s</text>`+"\n",
			vx+width/2, vy+opts.Padding+opts.TitleSize, opts.TitleSize, html.EscapeString(opts.Title)))
	}

	for _, l := range scene.Links {
		w := l.Wire
		sb.WriteString(fmt.Sprintf(`  <path d="M %g %g C %g %g, %g %g, %g %g" fill="none" stroke="#333" stroke-width="1.5" marker-end="url(#arrow)"><title>%s</title></path>`+"\n",
			w[0].X, w[0].Y, w[1].X, w[1].Y, w[2].X, w[2].Y, w[3].X, w[3].Y,
			html.EscapeString(l.Src.Element+"."+l.Src.Socket+" -> "+l.Dst.Element+"."+l.Dst.Socket)))
	}

	for _, e := range scene.Elements {
		fill, stroke := "#e3f2fd", "#1565c0"
		if e.Selected {
			fill, stroke = "#fff3e0", "#e65100"
		}
		r := e.Rect
		sb.WriteString(fmt.Sprintf(`  <g id="%s">`+"\n", html.EscapeString(e.Name)))
		sb.WriteString(fmt.Sprintf(`    <rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			r.Min.X, r.Min.Y, r.Dx(), r.Dy(), fill, stroke))
		sb.WriteString(fmt.Sprintf(`    <text x="%d" y="%d" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica, Arial, sans-serif" font-size="%d" fill="#333">%s</text>`+"\n",
			(r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2, opts.FontSize, html.EscapeString(e.Name)))

		half := scene.SocketSize / 2
		for _, s := range e.Sockets {
			c := "#2e7d32"
			if s.Direction == graph.Out {
				c = "#1565c0"
			}
			sb.WriteString(fmt.Sprintf(`    <rect x="%d" y="%d" width="%d" height="%d" fill="%s"><title>%s</title></rect>`+"\n",
				s.At.X-half, s.At.Y-half, scene.SocketSize, scene.SocketSize, c,
				html.EscapeString(s.Name+" "+s.Caps)))
		}
		sb.WriteString("  </g>\n")
	}

	if rb := scene.RubberBand; rb != nil {
		sb.WriteString(fmt.Sprintf(`  <line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#666" stroke-dasharray="4 2"/>`+"\n",
			rb[0].X, rb[0].Y, rb[1].X, rb[1].Y))
	}
	if box := scene.SelectionBox; box != nil {
		sb.WriteString(fmt.Sprintf(`  <rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="#666" stroke-dasharray="4 2"/>`+"\n",
			box.Min.X, box.Min.Y, box.Dx(), box.Dy()))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
