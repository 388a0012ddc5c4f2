package sink

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/pitch"
	"github.com/matzehuels/webern/pkg/core/row"
)

// TextOption configures text rendering.
type TextOption func(*textRenderer)

type textRenderer struct {
	label pitch.Labeler
}

// WithTextLabeler sets how pitch classes are spelled (default: integers).
func WithTextLabeler(l pitch.Labeler) TextOption {
	return func(r *textRenderer) {
		if l != nil {
			r.label = l
		}
	}
}

var (
	textBorder = strings.Repeat("|---------", row.Size) + "|\n"
	textEmpty  = strings.Repeat("|         ", row.Size) + "|\n"
)

// RenderText draws the serial square as a bordered character grid.
//
// Each grid row takes four lines (border, padding, pitches, padding) and the
// grid closes with a final border line. Every line, the last included, ends
// with a newline.
func RenderText(g matrix.Grid, opts ...TextOption) []byte {
	var buf bytes.Buffer
	_ = WriteText(&buf, g, opts...)
	return buf.Bytes()
}

// WriteText streams the same output as [RenderText] to w.
func WriteText(w io.Writer, g matrix.Grid, opts ...TextOption) error {
	r := textRenderer{label: pitch.Integers.Label}
	for _, opt := range opts {
		opt(&r)
	}

	var line strings.Builder
	for _, cells := range g.Cells {
		line.Reset()
		line.WriteString(textBorder)
		line.WriteString(textEmpty)
		for _, pc := range cells {
			fmt.Fprintf(&line, "|   %2s    ", r.label(int(pc)))
		}
		line.WriteString("|\n")
		line.WriteString(textEmpty)
		if _, err := io.WriteString(w, line.String()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, textBorder)
	return err
}
