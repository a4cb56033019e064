package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dropkit/internal/server"
	"github.com/matzehuels/dropkit/pkg/cache"
	"github.com/matzehuels/dropkit/pkg/observability"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, backend string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve placement and simulation over HTTP",
		Long: `Start the HTTP API:

  POST /v1/placement             compute an initial placement
  POST /v1/placement/recompute   recompute a placement after a resize
  POST /v1/transition/simulate   run a scripted open/close cycle
  GET  /v1/stats                 event counters since startup
  GET  /healthz                  liveness probe

Simulation traces are cached according to [server] cache in the config
file ("none", "file" or "redis"); --cache overrides it.`,
		Example: `  dropkit serve --addr :9000
  curl -s localhost:9000/v1/placement -d '{"anchor":{"top":500,"width":100,"height":30},"viewport":{"width":800,"height":540},"content":{"item_height":30,"item_count":10}}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if backend != "" {
				cfg.Server.Cache = backend
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			store, err := cache.Open(ctx, cfg.CacheOptions())
			if err != nil {
				return fmt.Errorf("open %s cache: %w", cfg.Server.Cache, err)
			}
			defer store.Close()
			c.Logger.Debug("cache ready", "backend", cfg.Server.Cache, "ttl", cfg.CacheTTL())

			stats := observability.NewCounters()
			observability.SetOverlayHooks(stats)
			observability.SetHTTPHooks(stats)
			defer observability.Reset()

			srv := server.New(cfg, c.Logger, server.WithCache(store), server.WithStats(stats))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&backend, "cache", "", "trace cache backend: none, file or redis")
	registerCacheCompletion(cmd)
	return cmd
}
