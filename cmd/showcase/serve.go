package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GriffinCanCode/showcase/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		port     string
		host     string
		watch    bool
		debounce time.Duration
		noLimit  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load stories, watch for changes and serve the catalog API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Server.Port = port
			}
			if flags.Changed("host") {
				cfg.Server.Host = host
			}
			if flags.Changed("watch") {
				cfg.Watch.Enabled = watch
			}
			if flags.Changed("debounce") {
				cfg.Watch.Debounce = debounce
			}
			if noLimit {
				cfg.RateLimit.Enabled = false
			}

			srv, err := server.NewServer(cfg)
			if err != nil {
				return err
			}
			defer srv.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port (env PORT)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP host (env HOST)")
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload when story files change (env WATCH_ENABLED)")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Quiet period before a reload (env WATCH_DEBOUNCE)")
	cmd.Flags().BoolVar(&noLimit, "no-rate-limit", false, "Disable API rate limiting")
	return cmd
}
