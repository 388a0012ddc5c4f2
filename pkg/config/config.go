// Package config loads the webern configuration file.
//
// Settings are layered, lowest to highest: built-in defaults, the TOML file
// at [Path] (or an explicit --config path), WEBERN_* environment variables,
// and finally command flags, which the CLI applies on top of the returned
// Config.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/webern/pkg/cache"
	"github.com/matzehuels/webern/pkg/core/pitch"
	"github.com/matzehuels/webern/pkg/errors"
	"github.com/matzehuels/webern/pkg/output"
	"github.com/matzehuels/webern/pkg/pipeline"
)

// Config is the full configuration file.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	S3     S3Config     `toml:"s3"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Formats     []string `toml:"formats"`
	ShowPitches bool     `toml:"show_pitches"`
	Names       string   `toml:"names"`
	Labels      bool     `toml:"labels"`
	Filename    string   `toml:"filename"`
	Output      string   `toml:"output"` // directory, "-" or s3://bucket/prefix
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	TTL           Duration `toml:"ttl"`
	Dir           string   `toml:"dir,omitempty"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password,omitempty"`
	RedisDB       int      `toml:"redis_db,omitempty"`
	SQLitePath    string   `toml:"sqlite_path"`
}

// ServerConfig configures `webern serve`.
type ServerConfig struct {
	Addr    string   `toml:"addr"`
	Timeout Duration `toml:"timeout"`
}

// S3Config configures S3 output targets.
type S3Config struct {
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	PathStyle bool   `toml:"path_style"`
}

// Duration is a time.Duration written as a string ("720h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Formats:     []string{string(pipeline.DefaultFormat)},
			ShowPitches: true,
			Names:       pitch.TableFlats,
			Filename:    pipeline.DefaultFilename,
			Output:      ".",
		},
		Cache: CacheConfig{
			Backend:   cache.BackendFile,
			TTL:       Duration{cache.TTLArtifact},
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Timeout: Duration{30 * time.Second},
		},
		S3: S3Config{
			Region: output.DefaultRegion,
		},
	}
}

// Path returns the default configuration file location:
// $XDG_CONFIG_HOME/webern/config.toml, or ~/.config/webern/config.toml.
func Path() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "webern", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "webern", "config.toml"), nil
}

// Load reads the configuration. An empty path reads the default location,
// where a missing file yields the defaults. An explicit path must exist.
// Environment overrides are applied, then the result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve config path")
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case os.IsNotExist(err) && !explicit:
		// defaults only
	default:
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// env lists the supported overrides.
var env = []struct {
	name  string
	apply func(*Config, string)
}{
	{"WEBERN_CACHE_BACKEND", func(c *Config, v string) { c.Cache.Backend = v }},
	{"WEBERN_REDIS_ADDR", func(c *Config, v string) { c.Cache.RedisAddr = v }},
	{"WEBERN_REDIS_PASSWORD", func(c *Config, v string) { c.Cache.RedisPassword = v }},
	{"WEBERN_SERVER_ADDR", func(c *Config, v string) { c.Server.Addr = v }},
	{"WEBERN_OUTPUT", func(c *Config, v string) { c.Render.Output = v }},
	{"WEBERN_S3_ENDPOINT", func(c *Config, v string) { c.S3.Endpoint = v }},
	{"WEBERN_S3_REGION", func(c *Config, v string) { c.S3.Region = v }},
}

func (c *Config) applyEnv() {
	for _, e := range env {
		if v, ok := os.LookupEnv(e.name); ok && v != "" {
			e.apply(c, v)
		}
	}
}

// Validate checks names that are otherwise only resolved at use time.
func (c *Config) Validate() error {
	if _, err := pipeline.ParseFormats(c.Render.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.formats")
	}
	if _, err := pitch.LookupNames(c.Render.Names); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.names")
	}
	if c.Render.Filename != "" {
		if err := errors.ValidateFilename(c.Render.Filename); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.filename")
		}
	}
	if c.Cache.Backend != "" && !slices.Contains(cache.Backends(), c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q (must be one of: %s)",
			c.Cache.Backend, strings.Join(cache.Backends(), ", "))
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl: must not be negative")
	}
	return nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// RenderOptions returns pipeline options for the configured defaults.
func (c *Config) RenderOptions() (pipeline.Options, error) {
	formats, err := pipeline.ParseFormats(c.Render.Formats)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Formats:     formats,
		ShowPitches: c.Render.ShowPitches,
		Names:       c.Render.Names,
		Labels:      c.Render.Labels,
		Filename:    c.Render.Filename,
	}, nil
}

// CacheOptions returns the options for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:    c.Cache.Backend,
		Dir:        c.Cache.Dir,
		SQLitePath: c.Cache.SQLitePath,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
	}
}

// S3Options returns the options for [output.Open].
func (c *Config) S3Options() output.S3Options {
	return output.S3Options{
		Region:    c.S3.Region,
		Endpoint:  c.S3.Endpoint,
		PathStyle: c.S3.PathStyle,
	}
}
