// Package sink provides the output format renderers for a pitch matrix.
//
// # Overview
//
// A "sink" turns a computed [matrix.Grid] or [matrix.Matrix] into bytes.
// Renderers hold no state and are safe to call concurrently.
//
//   - Text: the bordered character grid printed by "webern draw"
//   - SVG: the serial square as a table of 42pt cells
//   - PDF: the SVG table converted by rsvg-convert
//   - PNG: the serial square rasterized natively with golang.org/x/image
//   - LilyPond: all 48 forms as a stemless score
//   - JSON: all 48 forms with labels and spelled names
//
// # Pitch spelling
//
// Grid renderers spell pitch classes through an injected [pitch.Labeler],
// integers by default:
//
//	names, _ := pitch.LookupNames("flats")
//	txt := sink.RenderText(grid, sink.WithTextLabeler(pitch.LabelerFor(true, names)))
//	svg := sink.RenderSVG(grid, sink.WithLabeler(pitch.Flats.Label), sink.WithLabels())
//
// LilyPond output always uses [pitch.LilyPond], since the notation program
// needs its own note names.
//
// # PDF Output
//
// [RenderPDF] requires librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [matrix.Grid]: github.com/matzehuels/webern/pkg/core/matrix.Grid
// [matrix.Matrix]: github.com/matzehuels/webern/pkg/core/matrix.Matrix
// [pitch.Labeler]: github.com/matzehuels/webern/pkg/core/pitch.Labeler
// [pitch.LilyPond]: github.com/matzehuels/webern/pkg/core/pitch.LilyPond
package sink
