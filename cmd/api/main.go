package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/pyy-alt/ppg-admin-sub000/api/routes"
	"github.com/pyy-alt/ppg-admin-sub000/internal/activitylog"
	"github.com/pyy-alt/ppg-admin-sub000/internal/fileassets"
	"github.com/pyy-alt/ppg-admin-sub000/internal/partsorders"
	"github.com/pyy-alt/ppg-admin-sub000/internal/repairorders"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/auth/session"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/config"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/instance"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/logger"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/metrics"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/migrate"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/outbox"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/redis"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing clients", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	var objects *gcs.Client
	if cfg.FeatureFlags.VerifyFileAssets {
		objects, err = gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap gcs", err)
			os.Exit(1)
		}
	}

	fileService, err := fileassets.NewService(fileassets.NewRepository(dbClient.DB()), objects, cfg.FeatureFlags.VerifyFileAssets)
	if err != nil {
		logg.Error(ctx, "failed to create file asset service", err)
		os.Exit(1)
	}

	workflowMetrics := metrics.NewWorkflowMetrics(prometheus.DefaultRegisterer, cfg.Workflow.MetricsNamespace)
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	partsOrdersRepo := partsorders.NewRepository(dbClient.DB())
	activityLogs := activitylog.NewRepository(dbClient.DB())

	partsOrderService, err := partsorders.NewService(partsOrdersRepo, activityLogs, dbClient, outboxService, workflowMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to create parts order service", err)
		os.Exit(1)
	}

	repairOrderService, err := repairorders.NewService(repairorders.ServiceParams{
		Repo:        repairorders.NewRepository(dbClient.DB()),
		PartsOrders: partsOrdersRepo,
		Logs:        activityLogs,
		Files:       fileService,
		Tx:          dbClient,
		Outbox:      outboxService,
		Metrics:     workflowMetrics,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create repair order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID("local"),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			repairOrderService,
			partsOrderService,
			promhttp.Handler(),
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "api server shutdown failed", err)
		}
		logg.Info(logCtx, "api server stopped")
	}
}
