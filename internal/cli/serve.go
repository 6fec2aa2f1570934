package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"linkie-web/internal/adapters"
	"linkie-web/internal/server"
)

type serveOptions struct {
	Listen      string
	RateLimit   int
	DepsRefresh time.Duration
	DepsWatch   bool
	Proxies     []string
}

func newServeCommand() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Listen, "listen", server.DefaultListenAddr, "HTTP listen address")
	cmd.Flags().IntVar(&opts.RateLimit, "rate-limit", server.DefaultRateLimit, "Requests per minute per client (0 = unlimited)")
	cmd.Flags().DurationVar(&opts.DepsRefresh, "deps-refresh", 10*time.Minute, "Dependency record refresh interval (0 = never)")
	cmd.Flags().BoolVar(&opts.DepsWatch, "deps-watch", false, "Reload dependency records when files under --deps-dir change")
	cmd.Flags().StringSliceVar(&opts.Proxies, "trusted-proxy", nil, "Proxy address or CIDR whose X-Forwarded-For is trusted (repeatable)")
	_ = viper.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("rate_limit", cmd.Flags().Lookup("rate-limit"))
	_ = viper.BindPFlag("deps_refresh", cmd.Flags().Lookup("deps-refresh"))
	_ = viper.BindPFlag("deps_watch", cmd.Flags().Lookup("deps-watch"))
	_ = viper.BindPFlag("trusted_proxies", cmd.Flags().Lookup("trusted-proxy"))
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts serveOptions) error {
	proxies, err := server.ParseTrustedProxies(resolveStringSlice(cmd, opts.Proxies, "trusted_proxies", "trusted-proxy"))
	if err != nil {
		return err
	}
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()

	if refresher, ok := service.Refresher(); ok {
		if err := refresher.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("initial dependency refresh failed")
		}
		interval := resolveDuration(cmd, opts.DepsRefresh, "deps_refresh", "deps-refresh")
		go adapters.RunRefreshCycle(ctx, refresher, interval)
	}
	if resolveBool(cmd, opts.DepsWatch, "deps_watch", "deps-watch") {
		if source, ok := service.Dependencies.(*adapters.DependencyFileSource); ok {
			go func() {
				if err := source.Watch(ctx, 0); err != nil {
					log.Error().Err(err).Msg("dependency watcher stopped")
				}
			}()
		} else {
			log.Warn().Msg("--deps-watch requires --deps-dir, ignoring")
		}
	}

	srv := server.New(service, server.Options{
		RateLimit:      resolveInt(cmd, opts.RateLimit, "rate_limit", "rate-limit"),
		TrustedProxies: proxies,
	})
	return srv.ListenAndServe(ctx, resolveString(cmd, opts.Listen, "listen", "listen"))
}
