package pipeline

import (
	"context"

	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/row"
	"github.com/matzehuels/webern/pkg/errors"
)

// Render generates output artifacts in the requested formats without
// caching.
func Render(ctx context.Context, r row.Row, opts Options) (map[Format][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	in, err := newInput(r, &opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[Format][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, err := RenderFormat(ctx, f, in)
		if err != nil {
			return nil, err
		}
		artifacts[f] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single format from a prepared input.
func RenderFormat(ctx context.Context, f Format, in Input) ([]byte, error) {
	info, ok := registry[f]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", f)
	}
	data, err := info.render(ctx, in)
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", f)
	}
	return data, nil
}

// NewInput builds the matrix, the serial square and the labeler for r.
func NewInput(r row.Row, opts Options) (Input, error) {
	opts.SetDefaults()
	return newInput(r, &opts)
}

func newInput(r row.Row, opts *Options) (Input, error) {
	if !r.IsValid() {
		return Input{}, errors.New(errors.ErrCodeInvalidRowInput, "row %v is not a permutation of 0-11", r)
	}
	label, err := opts.Labeler()
	if err != nil {
		return Input{}, err
	}
	return Input{
		Matrix: matrix.Build(r),
		Grid:   matrix.Square(r),
		Label:  label,
		Labels: opts.Labels,
	}, nil
}
