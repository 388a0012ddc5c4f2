package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/webern/pkg/cache"
	"github.com/matzehuels/webern/pkg/core/row"
	"github.com/matzehuels/webern/pkg/errors"
	"github.com/matzehuels/webern/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// Execute builds the matrix and square for r and renders every requested
// format, reusing cached artifacts where possible.
func (r *Runner) Execute(ctx context.Context, rw row.Row, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	buildStart := time.Now()
	in, err := newInput(rw, &opts)
	if err != nil {
		return nil, err
	}
	zero := rw.Zero()
	result := &Result{
		Row:       zero,
		Matrix:    in.Matrix,
		Grid:      in.Grid,
		Artifacts: make(map[Format][]byte, len(opts.Formats)),
		CacheInfo: CacheInfo{Hits: make(map[Format]bool, len(opts.Formats))},
	}
	result.Stats.BuildTime = time.Since(buildStart)

	opts.Logger.Debug("built matrix", "row", zero, "duration", result.Stats.BuildTime)

	renderStart := time.Now()
	rowHash := cache.Hash([]byte(zero.String()))
	allHit := true
	for _, f := range opts.Formats {
		data, hit, err := r.RenderWithCacheInfo(ctx, f, in, rowHash, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts[f] = data
		result.CacheInfo.Hits[f] = hit
		result.Stats.Bytes += len(data)
		allHit = allHit && hit
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = allHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"bytes", result.Stats.Bytes,
		"cached", allHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo renders one format with caching and reports whether
// it was served from the cache. rowHash identifies the zero form of the row.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f Format, in Input, rowHash string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(rowHash, opts.ArtifactKeyOpts(f))

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "format", f, "error", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, string(f))
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, string(f))
	}

	observability.Render().OnRenderStart(ctx, string(f))
	start := time.Now()
	data, err := RenderFormat(ctx, f, in)
	observability.Render().OnRenderComplete(ctx, string(f), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "format", f, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, string(f), len(data))
	}
	return data, false, nil
}

// Render is a convenience wrapper that calls Execute and returns only the
// artifacts.
func (r *Runner) Render(ctx context.Context, rw row.Row, opts Options) (map[Format][]byte, error) {
	result, err := r.Execute(ctx, rw, opts)
	if err != nil {
		return nil, err
	}
	return result.Artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeCache, err, "close cache")
		}
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
