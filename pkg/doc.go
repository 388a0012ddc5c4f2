// Package pkg provides the libraries behind webern, a twelve-tone row toolkit.
//
// # Overview
//
// webern builds the 48 forms of a twelve-tone row and renders them. The pkg
// directory is organized into four areas:
//
//  1. [core] - Domain logic (rows, pitch names, the form matrix)
//  2. [render] - Renderers for text, SVG, PDF, PNG, LilyPond and JSON
//  3. [pipeline] - Orchestration (parse → build → render, with caching)
//  4. Infrastructure: [cache], [output], [config], [observability], [errors]
//
// # Architecture
//
// The typical data flow through webern:
//
//	"11 10 2 3" or "B Bb D Eb"
//	         ↓
//	    [core/row] package (parse, complete, normalize)
//	         ↓
//	    [core/matrix] package (48 labeled forms, serial square)
//	         ↓
//	    [render/sink] package (one renderer per format)
//	         ↓
//	    [output] package (directory, stdout or S3)
//
// # Quick Start
//
//	import (
//	    "os"
//
//	    "github.com/matzehuels/webern/pkg/core/matrix"
//	    "github.com/matzehuels/webern/pkg/core/pitch"
//	    "github.com/matzehuels/webern/pkg/core/row"
//	    "github.com/matzehuels/webern/pkg/render/sink"
//	)
//
//	r, _ := row.Parse("B Bb D Eb G F# Ab E F C C# A")
//	m := matrix.Build(r)
//	ri3, _ := m.Form(matrix.Label{Family: matrix.RetrogradeInversion, Transposition: 3})
//
//	label := pitch.LabelerFor(true, &pitch.Flats)
//	sink.WriteText(os.Stdout, matrix.Square(r), sink.WithTextLabeler(label))
//
// With caching and multiple formats, use [pipeline.Runner]:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, _ := runner.Execute(ctx, r, pipeline.Options{
//	    Formats:     []pipeline.Format{pipeline.FormatSVG, pipeline.FormatLilyPond},
//	    ShowPitches: true,
//	})
//
// # Package Organization
//
// Core:
//   - [core/row]: Row type, completion, P/I/R/RI transformations
//   - [core/pitch]: pitch-name tables and labelers
//   - [core/matrix]: the 48-form matrix, form labels, the serial square
//
// Rendering:
//   - [render/sink]: text, svg, pdf, png, lilypond and json renderers
//   - [render]: SVG to PDF conversion
//   - [fonts]: embedded typeface for raster output
//
// Infrastructure:
//   - [pipeline]: format registry, options and the caching runner
//   - [cache]: file, sqlite and redis artifact caches
//   - [output]: directory, stdout and S3 artifact stores
//   - [config]: TOML configuration with environment overrides
//   - [observability]: render, cache and HTTP hooks with a Prometheus backend
//   - [errors]: coded errors and input validation
//   - [buildinfo]: version metadata
package pkg
