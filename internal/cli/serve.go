package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rocktower/pkg/api"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the height API over HTTP",
		Long: `Serve the height API over HTTP.

Endpoints:
  GET  /healthz        liveness and build information
  POST /v1/height      compute a height ({"pattern": "...", "rocks": 2022})
  GET  /v1/runs        list recorded runs
  GET  /v1/runs/{id}   show one run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := api.New(runner, loggerFromContext(ctx), api.WithRequestTimeout(cfg.Server.RequestTimeout.Duration))
			return srv.ListenAndServe(ctx, api.Options{
				Addr:         addr,
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
				WriteTimeout: cfg.Server.WriteTimeout.Duration,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
