package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxypic/internal/server"
	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/observability"
	"github.com/matzehuels/boxypic/pkg/observability/prom"
)

type serveOpts struct {
	addr      string
	maxUpload int64
	noCache   bool
}

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the decomposition over HTTP",
		Long: `Serve the render and stats pipeline over HTTP.

Endpoints:
  POST /v1/render   image body in, artifact out (?format=png|jpeg|svg|tree|json|dot)
  POST /v1/stats    image body in, JSON summary out
  GET  /healthz     liveness
  GET  /version     build information
  GET  /metrics     Prometheus metrics

Query parameters default to the [render] section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				opts.addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("max-upload") {
				opts.maxUpload = c.Config.Server.MaxUploadBytes
			}
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, \":8080\")")
	cmd.Flags().Int64Var(&opts.maxUpload, "max-upload", 0, "maximum request body in bytes (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	if opts.maxUpload <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max upload must be positive (got %d)", opts.maxUpload)
	}

	hooks := prom.New(prometheus.DefaultRegisterer)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, server.Config{
		Addr:           opts.addr,
		MaxUploadBytes: opts.maxUpload,
		Defaults:       c.Config.PipelineOptions(),
		Gatherer:       prometheus.DefaultGatherer,
		Logger:         loggerFromContext(ctx),
	})
	return srv.ListenAndServe(ctx)
}
