package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"fleet/internal/app"
	"fleet/internal/config"
	"fleet/internal/fleet"
	"fleet/internal/handler"
	internalRedis "fleet/internal/redis"
	"fleet/internal/repository"
	"fleet/internal/repository/postgres"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	logger := newLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database and Redis clients can
	// be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.WithError(err).Warn("failed to initialize New Relic")
		} else {
			logger.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	registry := fleet.NewRegistry()

	// Snapshot persistence is optional; without it the registry starts
	// empty and lives in memory only.
	var snapshotStore repository.SnapshotStore
	if cfg.Snapshot.Enabled {
		db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to database")
		}
		defer db.Close()
		logger.Info("connected to PostgreSQL")

		store := postgres.NewSnapshotStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			logger.WithError(err).Fatal("failed to ensure snapshot schema")
		}
		snapshotStore = store

		snap, err := store.Load(ctx)
		switch {
		case errors.Is(err, repository.ErrNoSnapshot):
			logger.Info("no snapshot found, starting with an empty fleet")
		case err != nil:
			logger.WithError(err).Fatal("failed to load snapshot")
		default:
			if err := registry.Restore(snap); err != nil {
				logger.WithError(err).Fatal("failed to restore snapshot")
			}
			logger.WithFields(logrus.Fields{
				"vehicles":  len(snap.Vehicles),
				"customers": len(snap.Customers),
				"rentals":   len(snap.Rentals),
			}).Info("fleet restored from snapshot")
		}
	}

	var cacheStore *internalRedis.CacheStore
	deps := app.RouterDeps{NewRelicApp: nrApp, Logger: logger}
	if cfg.Redis.Enabled {
		redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to redis")
		}
		defer redisClient.Close()
		logger.Info("connected to Redis")

		cacheStore = internalRedis.NewCacheStore(redisClient)
		deps.RedisClient = redisClient
	}

	// Wire handlers.
	deps.VehicleHandler = handler.NewVehicleHandler(registry, cacheStore)
	deps.CustomerHandler = handler.NewCustomerHandler(registry, cacheStore)
	deps.RentalHandler = handler.NewRentalHandler(registry, cacheStore)
	deps.ReportHandler = handler.NewReportHandler(registry, cacheStore)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Periodic snapshots.
	snapshotDone := make(chan struct{})
	if snapshotStore != nil {
		go runSnapshotLoop(registry, snapshotStore, cfg.Snapshot.Interval, logger, snapshotDone)
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")
	close(snapshotDone)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}

	// Final snapshot so no fleet state is lost across restarts.
	if snapshotStore != nil {
		if err := snapshotStore.Save(shutdownCtx, registry.Snapshot()); err != nil {
			logger.WithError(err).Error("failed to save final snapshot")
		} else {
			logger.Info("final snapshot saved")
		}
	}

	logger.Info("server exited")
}

// runSnapshotLoop persists the registry at a fixed interval until done
// is closed.
func runSnapshotLoop(registry *fleet.Registry, store repository.SnapshotStore, interval time.Duration, logger *logrus.Logger, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := store.Save(ctx, registry.Snapshot()); err != nil {
				logger.WithError(err).Error("failed to save snapshot")
			} else {
				logger.Debug("snapshot saved")
			}
			cancel()
		case <-done:
			return
		}
	}
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
