package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/webern/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Backends lists the valid backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendRedis, BackendNone}
}

// Options selects and configures a backend.
type Options struct {
	Backend    string // one of Backends(); empty means file
	Dir        string // file backend directory; defaults to DefaultDir()
	SQLitePath string // sqlite database; defaults to DefaultDir()/cache.db
	Redis      RedisConfig
}

// DefaultDir returns $XDG_CACHE_HOME/webern, or the platform cache dir.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "webern"), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return filepath.Join(base, "webern"), nil
}

// Open returns the cache backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeCache, err, "resolve cache directory")
			}
			dir = filepath.Join(d, "artifacts")
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "open file cache")
		}
		return c, nil

	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeCache, err, "resolve cache directory")
			}
			path = filepath.Join(d, "cache.db")
		}
		c, err := NewSQLiteCache(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "open sqlite cache")
		}
		return c, nil

	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "open redis cache")
		}
		return c, nil

	case BackendNone:
		return NewNullCache(), nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (must be one of: file, sqlite, redis, none)", opts.Backend)
	}
}
