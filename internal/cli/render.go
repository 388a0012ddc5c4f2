package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/webern/pkg/output"
	"github.com/matzehuels/webern/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
// Unset flags fall back to the [render] section of the config file.
type renderOpts struct {
	display  displayFlags
	formats  []string // output formats, comma-separated or repeated
	output   string   // directory, "-" for stdout, or s3://bucket/prefix
	filename string   // base name of written files
	labels   bool     // form names around svg/pdf/png grids
	noCache  bool     // bypass the artifact cache entirely
	refresh  bool     // re-render even when cached
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <row>...",
		Short: "Render the matrix of a row to files",
		Long: `Render the 48 forms of a row in one or more formats.

Formats: ` + strings.Join(pipeline.FormatNames(), ", ") + `.
Files are named <filename>.<ext> and written to the output directory,
to stdout with -o -, or to S3 with -o s3://bucket/prefix.`,
		Example: `  webern render 11 10 2 3 7 6 8 4 5 0 1 9
  webern render -f svg,ly --pitches "B Bb D Eb G F# Ab E F C C# A"
  webern render -f text -o - 0 11 3 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, &opts)
		},
	}

	opts.display.register(cmd.Flags())
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "output format(s): "+strings.Join(pipeline.FormatNames(), ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory, - for stdout, or s3://bucket/prefix")
	cmd.Flags().StringVar(&opts.filename, "filename", "", "base name of written files (default \"row\")")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "print form names around svg, pdf and png grids")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render cached artifacts")

	return cmd
}

// runRender renders the row and hands every artifact to the output store.
func (c *CLI) runRender(cmd *cobra.Command, args []string, flags *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	r, err := rowFromArgs(args)
	if err != nil {
		return err
	}

	opts, err := c.baseOptions()
	if err != nil {
		return err
	}
	fs := cmd.Flags()
	flags.display.apply(fs, &opts)
	if fs.Changed("format") {
		if opts.Formats, err = pipeline.ParseFormats(flags.formats); err != nil {
			return err
		}
	}
	if fs.Changed("filename") {
		opts.Filename = flags.filename
	}
	if fs.Changed("labels") {
		opts.Labels = flags.labels
	}
	opts.Refresh = flags.refresh
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	target := c.cfg.Render.Output
	if fs.Changed("output") {
		target = flags.output
	}
	var store output.Store
	if target == output.Stdout {
		store = output.NewStdoutStore(cmd.OutOrStdout())
	} else if store, err = output.Open(ctx, target, c.cfg.S3Options()); err != nil {
		return err
	}

	// Status lines must not mix with artifacts written to stdout.
	status := cmd.OutOrStdout()
	if target == output.Stdout {
		status = cmd.ErrOrStderr()
	}

	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()

	logger.Debug("rendering", "row", r, "formats", opts.Formats, "target", target)
	prog := newProgress(logger)

	var spin *Spinner
	if isTerminal(cmd.ErrOrStderr()) {
		spin = newSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+r.Zero().String())
		spin.Start()
	}
	result, err := runner.Execute(ctx, r, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	for _, f := range opts.Formats {
		name := pipeline.ArtifactName(opts.Filename, f)
		loc, err := store.Put(ctx, name, result.Artifacts[f], f.ContentType())
		if err != nil {
			return err
		}
		if target != output.Stdout {
			printFile(status, loc, result.CacheInfo.Hits[f])
		}
	}

	prog.done("Rendered", "row", result.Row, "artifacts", len(opts.Formats))
	if target != output.Stdout {
		printStats(status, "P0 "+result.Row.String(), formatBytes(result.Stats.Bytes))
	}
	return nil
}

// formatBytes formats a byte count for status output.
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
