package serve

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tphakala/weatherboard/internal/app"
	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/httpcontroller"
	"github.com/tphakala/weatherboard/internal/logger"
)

// Command creates the serve command that runs the web dashboard.
func Command(settings *conf.Settings) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		Long:  "Restore or locate the initial cities and serve the dashboard page and JSON API until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				settings.WebServer.Listen = listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return Run(ctx, settings)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address, overrides webserver.listen")
	return cmd
}

// Run serves the dashboard until ctx is done. Bootstrap runs alongside the
// server so the page is available while the initial location lookup is in
// progress.
func Run(ctx context.Context, settings *conf.Settings) error {
	a, err := app.New(settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger.Error("Shutdown failed", logger.Error(err))
		}
	}()

	server, err := httpcontroller.New(settings, a.Dashboard, a.Metrics, a.Logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		res := a.Dashboard.Bootstrap(gctx)
		if res.Failed() {
			a.Logger.Warn("Dashboard bootstrap incomplete", logger.String("outcome", string(res.Outcome)), logger.Error(res.Err))
		}
		a.Logger.Info("Dashboard ready", logger.String("outcome", string(res.Outcome)),
			logger.Int("cities", len(a.Dashboard.Snapshot().Records)))
		return nil
	})
	return g.Wait()
}
