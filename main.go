package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"sales_dashboard/api"
	"sales_dashboard/internal/apiclient"
	"sales_dashboard/internal/config"
	"sales_dashboard/internal/dashboard"
	"sales_dashboard/internal/forms"
	"sales_dashboard/internal/logging"
	"sales_dashboard/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sales dashboard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	clientMetrics, err := apiclient.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("error registering client metrics: %w", err)
	}

	client := apiclient.New(cfg.APIBaseURL, cfg.HTTPTimeout, logger,
		apiclient.WithMetrics(clientMetrics),
		apiclient.WithRateLimit(cfg.UpstreamRPS, cfg.UpstreamBurst),
	)
	d := dashboard.New(client, store.New(), forms.NewRules(nil), logger, dashboard.Options{
		EligibilityScope: cfg.EligibilityScope,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := api.InitRoutes(r, api.Deps{
		Dashboard:   d,
		Logger:      logger,
		Registry:    registry,
		CORSOrigins: cfg.CORSOrigins,
		Production:  cfg.IsProduction(),
	}); err != nil {
		return fmt.Errorf("error registering routes: %w", err)
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("sales dashboard listening",
			zap.String("addr", cfg.Addr),
			zap.String("api", cfg.APIBaseURL),
			zap.String("eligibility_scope", cfg.EligibilityScope),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("error trying to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
