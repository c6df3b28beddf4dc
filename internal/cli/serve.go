package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskflow/internal/server"
	"github.com/matzehuels/taskflow/pkg/cache"
	"github.com/matzehuels/taskflow/pkg/config"
	"github.com/matzehuels/taskflow/pkg/source"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		sample  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Serve runs the HTTP API for the configured task source until interrupted.

Task lists loaded from Redis or MongoDB are cached briefly; reports are
cached for cache.ttl in the configured cache backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg

			p, err := c.openSource(ctx, "", sample)
			if err != nil {
				return err
			}

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()

			if !sample && (cfg.Source.Kind == config.SourceRedis || cfg.Source.Kind == config.SourceMongo) {
				p = source.NewCached(p, runner.Cache, runner.Keyer, cache.TTLTasks, c.Logger)
			}
			defer p.Close()

			if addr == "" {
				addr = cfg.Server.Addr
			}
			srv := server.New(p, runner, c.Logger, server.Options{
				Addr:         addr,
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
				WriteTimeout: cfg.Server.WriteTimeout.Duration,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().BoolVar(&sample, "sample", false, "serve the built-in sample tasks from memory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
