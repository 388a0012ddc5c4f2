package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/webern/internal/server"
	"github.com/matzehuels/webern/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve matrices over HTTP",
		Long: `Run the HTTP API.

  GET /v1/matrix?row=...           all 48 forms as JSON
  GET /v1/forms/{label}?row=...    one form, e.g. /v1/forms/RI3
  GET /v1/render/{format}?row=...  one artifact (text, svg, pdf, png, lilypond, json)
  GET /healthz, /version, /metrics

Responses show integers unless the request asks for pitches=true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}

			hooks := observability.NewPrometheusHooks(prometheus.DefaultRegisterer)
			observability.SetRenderHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			defaults, err := c.baseOptions()
			if err != nil {
				return err
			}
			defaults.ShowPitches = false

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.Options{
				Timeout:  c.cfg.Server.Timeout.Duration,
				Defaults: defaults,
			})
			c.Logger.Info("listening", "addr", addr, "cache", c.cfg.Cache.Backend)
			return srv.Serve(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
