// Package output writes rendered artifacts to their destination.
//
// A destination is a local directory, "-" for standard output, or an
// S3 location of the form s3://bucket/prefix:
//
//	store, err := output.Open(ctx, "s3://scores/op24", output.S3Options{Region: "eu-central-1"})
//	if err != nil {
//	    return err
//	}
//	loc, err := store.Put(ctx, "row.svg", svg, "image/svg+xml")
package output

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/webern/pkg/errors"
)

// Stdout is the target that selects [StdoutStore].
const Stdout = "-"

// Store receives named artifacts.
type Store interface {
	// Put writes data under name and returns where it ended up.
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Open returns the store for target. An s3:// URL selects [S3Store], "-"
// selects [StdoutStore], anything else is treated as a directory.
func Open(ctx context.Context, target string, s3opts S3Options) (Store, error) {
	switch {
	case target == Stdout:
		return NewStdoutStore(os.Stdout), nil
	case strings.HasPrefix(target, "s3://"):
		bucket, prefix, err := ParseS3URL(target)
		if err != nil {
			return nil, err
		}
		s3opts.Bucket = bucket
		s3opts.Prefix = prefix
		return NewS3Store(ctx, s3opts)
	default:
		return NewDirStore(target)
	}
}

// DirStore writes artifacts into a local directory.
type DirStore struct {
	dir string
}

// NewDirStore validates dir. An empty dir means the working directory.
// The directory is created on first Put.
func NewDirStore(dir string) (*DirStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := errors.ValidatePath(dir); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the target directory.
func (s *DirStore) Dir() string { return s.dir }

// Put writes dir/name with mode 0644.
func (s *DirStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	if err := errors.ValidateFilename(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "create %s", s.dir)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	return path, nil
}

// StdoutStore writes every artifact to one stream, in order.
type StdoutStore struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdoutStore returns a store writing to w.
func NewStdoutStore(w io.Writer) *StdoutStore {
	return &StdoutStore{w: w}
}

// Put writes data to the stream. The location is always "-".
func (s *StdoutStore) Put(_ context.Context, _ string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(data); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write stdout")
	}
	return Stdout, nil
}
