// Package fonts provides the typeface used by the raster and vector renderers.
//
// The raster renderer draws with Go Regular, which ships inside
// golang.org/x/image, so no font files need to be installed. SVG output
// names the same family with generic fallbacks.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family used in SVG output.
const FontFamily = `'Go', 'Helvetica Neue', Helvetica, Arial, sans-serif`

// Parsed once on first access.
var (
	regular     *opentype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed Go Regular font.
func Regular() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// Face returns a Go Regular face of the given size in pixels.
// The caller must Close it.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
