// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Josey34/multivendor-api-project/internal/config"
	"github.com/Josey34/multivendor-api-project/internal/infrastructure/database/postgres"
	"github.com/Josey34/multivendor-api-project/internal/infrastructure/database/redis"
	apihttp "github.com/Josey34/multivendor-api-project/internal/interfaces/http"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/middleware"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/routes"
	"github.com/Josey34/multivendor-api-project/internal/pkg/logger"
	"github.com/Josey34/multivendor-api-project/internal/pkg/pdf"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting")

	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	migration := postgres.NewMigration(db.GetDB(), log)
	if err := migration.RunAutoMigrations(); err != nil {
		log.WithError(err).Fatal("Database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("Index creation failed")
	}

	server := apihttp.NewServer(routes.Dependencies{
		Config:     cfg,
		DB:         db.GetDB(),
		StatsCache: redis.NewStatsCache(redisClient, cfg.Commerce.StatsCacheTTL),
		Invoices:   pdf.NewService(cfg),
	}, log, apihttp.Options{
		RateLimits: middleware.NewRedisRateLimitStore(redisClient.GetClient()),
		Checks: map[string]apihttp.HealthCheck{
			"database": db.Health,
			"redis":    redisClient.Health,
		},
	})

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}
