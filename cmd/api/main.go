package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pausrq/cucharita-api/config"
	"github.com/pausrq/cucharita-api/internal/database"
	"github.com/pausrq/cucharita-api/internal/router"
	"github.com/pausrq/cucharita-api/internal/server"
	"github.com/pausrq/cucharita-api/internal/service"
	"github.com/pausrq/cucharita-api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	if redisClient == nil {
		logger.Warn("redis not configured, logout revocation and upload rate limiting disabled")
	}

	var store service.ObjectStore
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			logger.Fatal("failed to initialize object storage", zap.Error(err))
		}
		store = s3Store
	} else {
		logger.Warn("object storage not configured, image uploads disabled")
		store = storage.Disabled{}
	}

	engine := router.Setup(cfg, db, redisClient, store, logger)
	srv := server.New(engine, cfg.ServerHost, cfg.ServerPort, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
