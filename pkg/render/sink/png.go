package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/pitch"
	"github.com/matzehuels/webern/pkg/errors"
	"github.com/matzehuels/webern/pkg/fonts"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	label  pitch.Labeler
	labels bool
	scale  float64
}

// WithPNGLabeler sets how pitch classes are spelled (default: integers).
func WithPNGLabeler(l pitch.Labeler) PNGOption {
	return func(r *pngRenderer) {
		if l != nil {
			r.label = l
		}
	}
}

// WithPNGLabels adds the P/I/R/RI form names around the grid.
func WithPNGLabels() PNGOption { return func(r *pngRenderer) { r.labels = true } }

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
// Non-positive values are ignored.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

var (
	pngInk   = color.Black
	pngMuted = color.Gray{Y: 0x66}
)

// RenderPNG rasterizes the serial square directly, one CellSize square
// per cell at the configured scale. No external tools are needed.
func RenderPNG(g matrix.Grid, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{label: pitch.Integers.Label, scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}

	l := newGridLayout(CellSize*r.scale, r.labels)
	w, h := l.size()
	img := image.NewRGBA(image.Rect(0, 0, int(w)+1, int(h)+1))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	face, err := fonts.Face(14 * r.scale)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "load font")
	}
	defer face.Close()

	small, err := fonts.Face(11 * r.scale)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "load font")
	}
	defer small.Close()

	for k, cells := range g.Cells {
		for j, pc := range cells {
			x, y := l.cellOrigin(k, j)
			strokeRect(img, int(x), int(y), int(x+l.cell), int(y+l.cell))
			drawCentered(img, face, pngInk, r.label(int(pc)), x+l.cell/2, y+l.cell/2)
		}
	}
	for _, m := range l.marginLabels(g) {
		drawCentered(img, small, pngMuted, m.text, m.cx, m.cy)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}

// strokeRect draws a one-pixel outline. Shared edges of adjacent cells
// land on the same pixels.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int) {
	for x := x0; x <= x1; x++ {
		img.Set(x, y0, pngInk)
		img.Set(x, y1, pngInk)
	}
	for y := y0; y <= y1; y++ {
		img.Set(x0, y, pngInk)
		img.Set(x1, y, pngInk)
	}
}

// drawCentered draws s with its visual center at (cx, cy).
func drawCentered(img *image.RGBA, face font.Face, c color.Color, s string, cx, cy float64) {
	metrics := face.Metrics()
	width := font.MeasureString(face, s)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(cx*64) - width/2,
			Y: fixed.Int26_6(cy*64) + (metrics.Ascent-metrics.Descent)/2,
		},
	}
	d.DrawString(s)
}
