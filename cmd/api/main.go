package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vendorpulse/vendorpulse-backend/api/routes"
	"github.com/vendorpulse/vendorpulse-backend/internal/performance"
	"github.com/vendorpulse/vendorpulse-backend/internal/purchaseorders"
	"github.com/vendorpulse/vendorpulse-backend/internal/vendors"
	"github.com/vendorpulse/vendorpulse-backend/pkg/config"
	"github.com/vendorpulse/vendorpulse-backend/pkg/db"
	"github.com/vendorpulse/vendorpulse-backend/pkg/logger"
	pkgmetrics "github.com/vendorpulse/vendorpulse-backend/pkg/metrics"
	"github.com/vendorpulse/vendorpulse-backend/pkg/migrate"
	"github.com/vendorpulse/vendorpulse-backend/pkg/redis"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency disabled")
	}

	recomputeObs := pkgmetrics.NewRecomputeMetrics(prometheus.DefaultRegisterer)

	perfRepo := performance.NewRepository(dbClient.DB())
	recomputer, err := performance.NewRecomputer(perfRepo, recomputeObs)
	if err != nil {
		logg.Error(context.Background(), "failed to create recomputer", err)
		os.Exit(1)
	}

	performanceService, err := performance.NewService(perfRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create performance service", err)
		os.Exit(1)
	}

	vendorService, err := vendors.NewService(vendors.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create vendor service", err)
		os.Exit(1)
	}

	orderService, err := purchaseorders.NewService(
		purchaseorders.NewRepository(dbClient.DB()),
		dbClient,
		recomputer,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, vendorService, orderService, performanceService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
