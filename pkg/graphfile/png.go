// Native PNG rendering for pipeline scenes.
// Mirrors the SVG renderer output using Go's image packages.

package graphfile

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/ha1tch/padgraph/pkg/canvas"
	"github.com/ha1tch/padgraph/pkg/graph"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// PNGOptions configures PNG rendering. A zero Width or Height sizes the
// image to the scene at 1:1.
type PNGOptions struct {
	Width    int
	Height   int
	Padding  int
	FontSize int
	Title    string
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Padding:  20,
		FontSize: 12,
	}
}

// Colors used in rendering
var (
	colorWhite       = color.RGBA{255, 255, 255, 255}
	colorBlack       = color.RGBA{51, 51, 51, 255}    // #333
	colorGray        = color.RGBA{102, 102, 102, 255} // #666
	colorElement     = color.RGBA{227, 242, 253, 255} // #e3f2fd
	colorElementBdr  = color.RGBA{21, 101, 192, 255}  // #1565c0
	colorSelected    = color.RGBA{255, 243, 224, 255} // #fff3e0
	colorSelectedBdr = color.RGBA{230, 81, 0, 255}    // #e65100
	colorInSocket    = color.RGBA{46, 125, 50, 255}   // #2e7d32
	colorOutSocket   = color.RGBA{21, 101, 192, 255}  // #1565c0
)

// renderContext holds rendering parameters including scale
type renderContext struct {
	img       *image.RGBA
	scale     float64 // multiplier for line thickness, arrow size, etc.
	lineWidth float64
	face      font.Face
	proj      projection
}

// projection maps scene coordinates to image pixels.
type projection struct {
	origin image.Point // scene point drawn at (offX, offY)
	factor float64
	offX   float64
	offY   float64
}

func (p projection) point(pt image.Point) (float64, float64) {
	return float64(pt.X-p.origin.X)*p.factor + p.offX,
		float64(pt.Y-p.origin.Y)*p.factor + p.offY
}

func (p projection) pointF(pt canvas.Point) (float64, float64) {
	return (pt.X-float64(p.origin.X))*p.factor + p.offX,
		(pt.Y-float64(p.origin.Y))*p.factor + p.offY
}

func (p projection) rect(r image.Rectangle) image.Rectangle {
	x0, y0 := p.point(r.Min)
	x1, y1 := p.point(r.Max)
	return image.Rect(int(x0), int(y0), int(math.Ceil(x1)), int(math.Ceil(y1)))
}

// fit works out the output size and projection for a scene.
func fit(scene canvas.Scene, opts PNGOptions) (width, height int, proj projection) {
	ext := scene.Extent()
	if ext.Empty() {
		ext = image.Rect(0, 0, 1, 1)
	}
	titleH := 0
	if opts.Title != "" {
		titleH = opts.FontSize * 2
	}

	proj = projection{origin: ext.Min, factor: 1, offX: float64(opts.Padding), offY: float64(opts.Padding + titleH)}
	width, height = opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		return ext.Dx() + 2*opts.Padding, ext.Dy() + 2*opts.Padding + titleH, proj
	}

	availW := float64(width - 2*opts.Padding)
	availH := float64(height - 2*opts.Padding - titleH)
	proj.factor = math.Max(0.05, math.Min(availW/float64(ext.Dx()), availH/float64(ext.Dy())))
	return width, height, proj
}

func newRenderContext(img *image.RGBA, scale int, fontSize int, proj projection) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	// Face at scaled size; the image is downsampled afterwards.
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}

	proj.factor *= float64(scale)
	proj.offX *= float64(scale)
	proj.offY *= float64(scale)
	return &renderContext{
		img:       img,
		scale:     float64(scale),
		lineWidth: float64(scale) * 1.5,
		face:      face,
		proj:      proj,
	}, nil
}

// RenderPNG renders a scene to PNG format.
// Uses 4x supersampling for smoother output.
func RenderPNG(scene canvas.Scene, w io.Writer, opts PNGOptions) error {
	img, err := RenderImage(scene, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderImage renders a scene to an in-memory image.
func RenderImage(scene canvas.Scene, opts PNGOptions) (*image.RGBA, error) {
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	const scale = 4
	width, height, proj := fit(scene, opts)

	large := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	ctx, err := newRenderContext(large, scale, opts.FontSize, proj)
	if err != nil {
		return nil, err
	}
	renderScene(ctx, scene, opts)

	// Downsample to target size using high-quality interpolation
	final := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, nil
}

func renderScene(ctx *renderContext, scene canvas.Scene, opts PNGOptions) {
	draw.Draw(ctx.img, ctx.img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	if opts.Title != "" {
		x := ctx.img.Bounds().Dx() / 2
		y := int(float64(opts.Padding+opts.FontSize) * ctx.scale)
		drawTextCentered(ctx, x, y, opts.Title, colorBlack)
	}

	// Links first so element bodies cover their ends
	for _, l := range scene.Links {
		drawWire(ctx, l.Wire, colorBlack)
	}

	for _, e := range scene.Elements {
		fill, border := colorElement, colorElementBdr
		if e.Selected {
			fill, border = colorSelected, colorSelectedBdr
		}
		r := ctx.proj.rect(e.Rect)
		fillRect(ctx, r, fill)
		strokeRect(ctx, r, border)

		cx := (r.Min.X + r.Max.X) / 2
		cy := (r.Min.Y + r.Max.Y) / 2
		drawTextCentered(ctx, cx, cy, e.Name, colorBlack)

		for _, s := range e.Sockets {
			c := colorInSocket
			if s.Direction == graph.Out {
				c = colorOutSocket
			}
			x, y := ctx.proj.point(s.At)
			half := float64(scene.SocketSize) * ctx.proj.factor / 2
			fillRect(ctx, image.Rect(int(x-half), int(y-half), int(x+half), int(y+half)), c)
		}
	}

	if rb := scene.RubberBand; rb != nil {
		x1, y1 := ctx.proj.point(rb[0])
		x2, y2 := ctx.proj.point(rb[1])
		drawLine(ctx, x1, y1, x2, y2, colorGray)
	}
	if box := scene.SelectionBox; box != nil {
		strokeRect(ctx, ctx.proj.rect(*box), colorGray)
	}
}

func fillRect(ctx *renderContext, r image.Rectangle, c color.Color) {
	draw.Draw(ctx.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(ctx *renderContext, r image.Rectangle, c color.Color) {
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	x1, y1 := float64(r.Max.X-1), float64(r.Max.Y-1)
	drawLine(ctx, x0, y0, x1, y0, c)
	drawLine(ctx, x1, y0, x1, y1, c)
	drawLine(ctx, x1, y1, x0, y1, c)
	drawLine(ctx, x0, y1, x0, y0, c)
}

func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	img := ctx.img
	halfThick := ctx.lineWidth / 2

	dx := x2 - x1
	dy := y2 - y1
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}

	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t

		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// drawWire draws a link curve with an arrow head at its In end.
func drawWire(ctx *renderContext, w canvas.Wire, c color.Color) {
	pts := w.Flatten(4)
	x1, y1 := ctx.proj.pointF(pts[0])
	for _, pt := range pts[1:] {
		x2, y2 := ctx.proj.pointF(pt)
		drawLine(ctx, x1, y1, x2, y2, c)
		x1, y1 = x2, y2
	}
	tan := w.Tangent(1)
	drawArrowHead(ctx, x1, y1, tan.X, tan.Y, c)
}

// drawArrowHead fills an arrow head at (x, y) pointing along (dx, dy).
func drawArrowHead(ctx *renderContext, x, y, dx, dy float64, c color.Color) {
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1e-9 {
		return
	}

	nx := dx / dist
	ny := dy / dist

	arrowLen := 7.0 * ctx.scale
	arrowWidth := 3.5 * ctx.scale

	ax1 := x - nx*arrowLen + ny*arrowWidth
	ay1 := y - ny*arrowLen - nx*arrowWidth
	ax2 := x - nx*arrowLen - ny*arrowWidth
	ay2 := y - ny*arrowLen + nx*arrowWidth

	// Fill arrowhead
	for t := 0.0; t <= 1.0; t += 0.05 {
		mx := ax1 + (ax2-ax1)*t
		my := ay1 + (ay2-ay1)*t
		drawLine(ctx, x, y, mx, my, c)
	}
}

// drawTextCentered draws text with its visual centre at (x, y).
func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text).Ceil()

	// Cap height is roughly 0.7 of the ascent
	ascent := ctx.face.Metrics().Ascent.Ceil()
	baselineY := y + int(float64(ascent)*0.35)

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot:  fixed.Point26_6{X: fixed.I(x - width/2), Y: fixed.I(baselineY)},
	}
	d.DrawString(text)
}
