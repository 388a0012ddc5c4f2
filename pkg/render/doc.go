// Package render holds the format conversion shared by the matrix renderers.
//
// The renderers themselves live in [sink]; each one turns a computed
// matrix or serial square into bytes. This package only provides
// [ToPDF], which converts an SVG document to PDF with the external
// rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(grid, sink.WithLabels())
//	pdf, err := render.ToPDF(ctx, svg)
//
// [sink]: github.com/matzehuels/webern/pkg/render/sink
package render
