package pipeline

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/pitch"
	"github.com/matzehuels/webern/pkg/errors"
	"github.com/matzehuels/webern/pkg/render/sink"
)

// Format is an output format. The set is closed; see [Formats].
type Format string

// Supported formats.
const (
	FormatText     Format = "text"
	FormatSVG      Format = "svg"
	FormatPDF      Format = "pdf"
	FormatPNG      Format = "png"
	FormatLilyPond Format = "lilypond"
	FormatJSON     Format = "json"
)

// Input is everything a renderer may draw from. The grid renderers use
// Grid, the score and data renderers use Matrix.
type Input struct {
	Matrix *matrix.Matrix
	Grid   matrix.Grid
	Label  pitch.Labeler
	Labels bool
}

// RenderFunc renders one format.
type RenderFunc func(ctx context.Context, in Input) ([]byte, error)

type formatInfo struct {
	ext         string
	contentType string
	render      RenderFunc
}

// registry maps each format to its renderer. It is filled once at init and
// read-only afterwards.
var registry map[Format]formatInfo

// order is the canonical listing order of formats.
var order = []Format{FormatText, FormatSVG, FormatPDF, FormatPNG, FormatLilyPond, FormatJSON}

// aliases accepted by ParseFormat in addition to the canonical names.
var aliases = map[string]Format{
	"txt": FormatText,
	"ly":  FormatLilyPond,
}

func init() {
	registry = map[Format]formatInfo{
		FormatText: {"txt", "text/plain; charset=utf-8", func(_ context.Context, in Input) ([]byte, error) {
			return sink.RenderText(in.Grid, sink.WithTextLabeler(in.Label)), nil
		}},
		FormatSVG: {"svg", "image/svg+xml", func(_ context.Context, in Input) ([]byte, error) {
			return sink.RenderSVG(in.Grid, svgOptions(in)...), nil
		}},
		FormatPDF: {"pdf", "application/pdf", func(ctx context.Context, in Input) ([]byte, error) {
			return sink.RenderPDF(ctx, in.Grid, sink.WithPDFSVGOptions(svgOptions(in)...))
		}},
		FormatPNG: {"png", "image/png", func(_ context.Context, in Input) ([]byte, error) {
			opts := []sink.PNGOption{sink.WithPNGLabeler(in.Label)}
			if in.Labels {
				opts = append(opts, sink.WithPNGLabels())
			}
			return sink.RenderPNG(in.Grid, opts...)
		}},
		FormatLilyPond: {"ly", "text/x-lilypond; charset=utf-8", func(_ context.Context, in Input) ([]byte, error) {
			return sink.RenderLilyPond(in.Matrix), nil
		}},
		FormatJSON: {"json", "application/json", func(_ context.Context, in Input) ([]byte, error) {
			return sink.RenderJSON(in.Matrix, sink.WithJSONLabeler(in.Label))
		}},
	}
}

func svgOptions(in Input) []sink.SVGOption {
	opts := []sink.SVGOption{sink.WithLabeler(in.Label)}
	if in.Labels {
		opts = append(opts, sink.WithLabels())
	}
	return opts
}

// Formats returns every supported format in canonical order.
func Formats() []Format {
	return slices.Clone(order)
}

// FormatNames returns the canonical names of every format.
func FormatNames() []string {
	names := make([]string, len(order))
	for i, f := range order {
		names[i] = string(f)
	}
	return names
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	_, ok := registry[f]
	return ok
}

// Extension returns the file extension without the dot, e.g. "ly".
func (f Format) Extension() string {
	return registry[f].ext
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	return registry[f].contentType
}

// String returns the canonical format name.
func (f Format) String() string {
	return string(f)
}

// ParseFormat resolves a format name case-insensitively. The file
// extensions "txt" and "ly" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if f, ok := aliases[name]; ok {
		return f, nil
	}
	if f := Format(name); f.Valid() {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"invalid format: %q (must be one of: %s)", s, strings.Join(FormatNames(), ", "))
}

// ParseFormats resolves a list of names. Each entry may itself be a
// comma-separated list. Duplicates are dropped, keeping first occurrence.
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	for _, entry := range names {
		for _, name := range strings.Split(entry, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			f, err := ParseFormat(name)
			if err != nil {
				return nil, err
			}
			if !slices.Contains(out, f) {
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []Format) error {
	for _, f := range formats {
		if !f.Valid() {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %q (must be one of: %s)", f, strings.Join(FormatNames(), ", "))
		}
	}
	return nil
}

// ArtifactName returns the file name of a rendered artifact, e.g. "row.ly".
func ArtifactName(filename string, f Format) string {
	return filename + "." + f.Extension()
}
