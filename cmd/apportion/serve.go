package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Apportion/internal/ahp"
	"github.com/MikeSquared-Agency/Apportion/internal/api"
	"github.com/MikeSquared-Agency/Apportion/internal/config"
	"github.com/MikeSquared-Agency/Apportion/internal/hermes"
	"github.com/MikeSquared-Agency/Apportion/internal/metrics"
	"github.com/MikeSquared-Agency/Apportion/internal/palette"
	"github.com/MikeSquared-Agency/Apportion/internal/session"
	"github.com/MikeSquared-Agency/Apportion/internal/store"
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ranking page, JSON API and metrics servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := cfg.Logging.NewLogger(os.Stdout)
	checkReciprocity(logger, cfg.Matrix())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sessions
	var db store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return fmt.Errorf("ensure schema: %w", err)
		}
		db = pg
		logger.Info("connected to database")
	} else {
		db = store.NewMemoryStore()
		logger.Info("using in-memory session store")
	}
	defer db.Close()

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	m := metrics.New()
	if err := m.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	svc := session.NewService(db, hermesClient, m, session.Model{
		Categories: cfg.Model.Categories,
		Matrix:     cfg.Matrix(),
		Rescale:    cfg.Weights.Rescale,
	}, logger)

	// API server
	router := api.NewRouter(svc, palette.New(cfg.ColorMode()), m, api.RouterConfig{
		ChartSize:         cfg.Chart.Size,
		RequestsPerMinute: cfg.Server.RequestsPerMinute,
	}, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
	return nil
}

// reciprocityTolerance allows for the rounding in entries such as 1/3.
const reciprocityTolerance = 1e-9

// checkReciprocity warns when the configured matrix is not reciprocal. The
// calculator accepts such matrices, so this is advisory only.
func checkReciprocity(logger *slog.Logger, m ahp.Matrix) {
	dev, err := m.Reciprocity()
	if err != nil {
		logger.Warn("cannot check matrix reciprocity", "error", err)
		return
	}
	if dev > reciprocityTolerance {
		logger.Warn("comparison matrix is not reciprocal", "max_deviation", dev)
		return
	}
	logger.Debug("comparison matrix is reciprocal", "max_deviation", dev)
}
