// Package pipeline provides the render pipeline shared by the CLI and the
// HTTP API.
//
// The pipeline takes a row and render options, builds the pitch matrix and
// the serial square, and renders the requested formats. By centralizing
// this, every entry point names, caches and spells artifacts identically.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, r, pipeline.Options{
//	    Formats:     []pipeline.Format{pipeline.FormatSVG, pipeline.FormatLilyPond},
//	    ShowPitches: true,
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Render without a cache:
//
//	artifacts, err := pipeline.Render(ctx, r, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/webern/pkg/cache"
	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/pitch"
	"github.com/matzehuels/webern/pkg/core/row"
	"github.com/matzehuels/webern/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFilename is the base name of written artifacts.
	DefaultFilename = "row"

	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = FormatText
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a render.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats     []Format `json:"formats,omitempty"`
	ShowPitches bool     `json:"show_pitches,omitempty"` // letter names instead of integers
	Names       string   `json:"names,omitempty"`        // pitch name table: "flats" or "sharps"
	Labels      bool     `json:"labels,omitempty"`       // form names around svg/pdf/png grids
	Filename    string   `json:"filename,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"` // ignore cached artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// SetDefaults fills in empty fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []Format{DefaultFormat}
	}
	if o.Names == "" {
		o.Names = pitch.TableFlats
	}
	if o.Filename == "" {
		o.Filename = DefaultFilename
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks formats, the name table and the filename.
func (o *Options) Validate() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := pitch.LookupNames(o.Names); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid names")
	}
	if o.Filename != "" {
		if err := errors.ValidateFilename(o.Filename); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults, then validates.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// Labeler returns the pitch spelling selected by ShowPitches and Names.
func (o *Options) Labeler() (pitch.Labeler, error) {
	names, err := pitch.LookupNames(o.Names)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid names")
	}
	return pitch.LabelerFor(o.ShowPitches, names), nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(f Format) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: string(f), ShowPitches: o.ShowPitches, Labels: o.Labels}
	if o.ShowPitches {
		k.Names = o.Names
	}
	return k
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Row is the zero form of the input row.
	Row row.Row

	// Matrix holds the 48 labeled forms.
	Matrix *matrix.Matrix

	// Grid is the serial square.
	Grid matrix.Grid

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[Format][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which formats came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BuildTime  time.Duration
	RenderTime time.Duration
	Bytes      int
}

// CacheInfo tracks cache hits per format.
type CacheInfo struct {
	Hits      map[Format]bool
	RenderHit bool // whether every artifact came from the cache
}
