package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"omylab/cmd"
	"omylab/internal/data/repository"
	"omylab/internal/wire"
	"omylab/pkg/cache"
	"omylab/pkg/database"
	"omylab/pkg/notifier"
	"omylab/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Connect to redis
	rdb := cache.NewCache(config.Redis)
	if err := rdb.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	logger.Info("Redis connected successfully")

	repos := repository.NewRepository(db, logger)
	sender := notifier.New(config.Email, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, cache.NewPendingLogins(rdb), sender, config, logger)

	go cmd.SessionJanitor(ctx, time.Hour, app.Service.Auth.PurgeExpiredSessions, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
