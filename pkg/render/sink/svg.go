package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/pitch"
	"github.com/matzehuels/webern/pkg/fonts"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	label  pitch.Labeler
	labels bool
}

// WithLabeler sets how pitch classes are spelled (default: integers).
func WithLabeler(l pitch.Labeler) SVGOption {
	return func(r *svgRenderer) {
		if l != nil {
			r.label = l
		}
	}
}

// WithLabels adds the P/I/R/RI form names around the grid.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{label: pitch.Integers.Label}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the serial square as a table of fixed-size cells.
func RenderSVG(g matrix.Grid, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	l := newGridLayout(CellSize, r.labels)
	w, h := l.size()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="white"/>`+"\n", w, h)
	fmt.Fprintf(&buf, `  <g font-family="%s" font-size="14" text-anchor="middle" dominant-baseline="central">`+"\n",
		html.EscapeString(fonts.FontFamily))

	for k, cells := range g.Cells {
		for j, pc := range cells {
			x, y := l.cellOrigin(k, j)
			fmt.Fprintf(&buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="black" stroke-width="1"/>`+"\n",
				x, y, l.cell, l.cell)
			fmt.Fprintf(&buf, `    <text x="%.1f" y="%.1f">%s</text>`+"\n",
				x+l.cell/2, y+l.cell/2, html.EscapeString(r.label(int(pc))))
		}
	}

	for _, m := range l.marginLabels(g) {
		fmt.Fprintf(&buf, `    <text class="label" x="%.1f" y="%.1f" font-size="11" fill="#666">%s</text>`+"\n",
			m.cx, m.cy, m.text)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}
