package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard, JSON API and SSE endpoints",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
}

// newHandler wires the routes behind the middleware chain.
func newHandler(cfg *config.Config, analytics *services.Analytics, logger *slog.Logger) http.Handler {
	srv := server.NewServer(analytics, logger)
	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)
	return chain(srv)
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	handlers.Version = version

	a.logger.Info("starting application",
		"version", version,
		"addr", a.cfg.Address(),
		"csv_file", a.cfg.Data.CSVFile,
	)

	analytics, err := a.loadAnalytics(ctx)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         a.cfg.Address(),
		Handler:      newHandler(a.cfg, analytics, a.logger),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, a.logger, a.cfg.Server)
	gracefulServer.RegisterShutdownHook("analytics", func(ctx context.Context) error {
		a.logger.Info("shutting down analytics service", "stats", analytics.Stats())
		return nil
	})

	if err := gracefulServer.ListenAndServe(ctx); err != nil {
		return err
	}

	a.logger.Info("application stopped gracefully")
	return nil
}
