// Package cli implements the webern command-line interface.
//
// # Commands
//
//   - render: write the matrix of a row as text, svg, pdf, png, lilypond or json
//   - draw: print the bordered serial square to stdout
//   - forms: list the 48 labeled forms as a table
//   - explore: browse the forms interactively
//   - serve: run the HTTP API
//   - cache: inspect and clear the artifact cache
//   - config: create and locate the configuration file
//
// Rows are given as arguments in any notation row.Parse accepts, so
// `webern draw 11 10 2 3` and `webern draw "B,Bb,D,Eb"` both work.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels through the command context; see loggerFromContext.
package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/webern/pkg/buildinfo"
	"github.com/matzehuels/webern/pkg/cache"
	"github.com/matzehuels/webern/pkg/config"
	"github.com/matzehuels/webern/pkg/core/row"
	"github.com/matzehuels/webern/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "webern"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// skipConfig marks commands that must run without loading the config file.
const skipConfig = "skip-config"

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg        config.Config
	configPath string
	verbose    bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Webern computes and renders twelve-tone matrices",
		Long: `Webern builds the 48 forms of a twelve-tone row (prime, inversion,
retrograde and retrograde inversion at every transposition) and renders
them as a bordered text grid, SVG, PDF, PNG, LilyPond score or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if cmd.Annotations[skipConfig] != "" {
				return nil
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/webern/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.drawCommand())
	root.AddCommand(c.formsCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// Keys are scoped by build so an upgrade never serves stale artifacts.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	keyer := cache.NewScopedKeyer(nil, buildinfo.CacheScope()+":")
	runner := pipeline.NewRunner(c.openCache(ctx, noCache), keyer, c.Logger)
	runner.TTL = c.cfg.Cache.TTL.Duration
	return runner
}

// openCache opens the configured backend. An unavailable cache is not
// fatal: rendering proceeds without it.
func (c *CLI) openCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	ch, err := cache.Open(ctx, c.cfg.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", c.cfg.Cache.Backend, "error", err)
		return cache.NewNullCache()
	}
	return ch
}

// =============================================================================
// Shared Flags
// =============================================================================

// displayFlags controls how pitch classes are spelled.
type displayFlags struct {
	pitches bool
	names   string
}

// register adds --pitches (alias --show-pitches), --no-pitches and --names.
// --pitches and --no-pitches share one target, so the last one given wins.
func (d *displayFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&d.pitches, "pitches", false, "show letter names instead of integers")
	fs.VarPF(negatedBool{&d.pitches}, "no-pitches", "", "show integers instead of letter names").NoOptDefVal = "true"
	fs.StringVar(&d.names, "names", "", "pitch name table: flats or sharps")
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "show-pitches" {
			name = "pitches"
		}
		return pflag.NormalizedName(name)
	})
}

// apply overrides the configured display settings with flags given on the
// command line.
func (d *displayFlags) apply(fs *pflag.FlagSet, opts *pipeline.Options) {
	if fs.Changed("pitches") || fs.Changed("no-pitches") {
		opts.ShowPitches = d.pitches
	}
	if fs.Changed("names") {
		opts.Names = d.names
	}
}

// negatedBool is a boolean flag that stores the inverse of its value.
type negatedBool struct{ target *bool }

func (n negatedBool) String() string { return "false" }

func (n negatedBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*n.target = !v
	return nil
}

func (n negatedBool) Type() string { return "bool" }

func (n negatedBool) IsBoolFlag() bool { return true }

// baseOptions returns render options from the config file.
func (c *CLI) baseOptions() (pipeline.Options, error) {
	opts, err := c.cfg.RenderOptions()
	if err != nil {
		return opts, err
	}
	opts.Logger = c.Logger
	return opts, nil
}

// rowFromArgs joins the arguments and parses them as one row.
func rowFromArgs(args []string) (row.Row, error) {
	return row.Parse(strings.Join(args, " "))
}
