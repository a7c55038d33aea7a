package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/chordgen/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP server until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		prefix  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve diagrams and the chord library over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Server.Prefix = prefix
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(runner, store, loggerFromContext(ctx), server.Config{
				Prefix:         cfg.Server.Prefix,
				Width:          cfg.Render.Width,
				ReadTimeout:    cfg.Server.ReadTimeout,
				WriteTimeout:   cfg.Server.WriteTimeout,
				RequestTimeout: cfg.Server.RequestTimeout,
			})
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	cmd.Flags().StringVar(&prefix, "prefix", "", "extra mount point for all routes, e.g. /guitarchords")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
