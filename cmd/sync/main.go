package main

import (
	"context"
	"log"
	"time"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/config"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/directory"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/gateway"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/logging"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/notify"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/services"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/store"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// One-shot batch sync: refresh every known user and exit. Meant for cron
// or a manual operator run; the API server exposes the same sync behind
// /api/admin/sync-database.
func main() {
	_ = godotenv.Load()

	if err := logging.InitLogger(); err != nil {
		log.Fatal("failed to initialize logger:", err)
	}

	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	config.InitMongoDB()
	config.InitRedis()

	gw := gateway.NewClient(config.AppConfig, logging.Logger)

	userStore := store.NewMongoStore(
		config.MongoDB,
		config.AppConfig.UserCacheCollection,
		config.Redis,
		config.AppConfig.RedisTTL,
		logging.Logger,
	)

	userDir := directory.NewMongo(config.MongoDB, config.AppConfig.UserDirectoryCollection)
	if err := userDir.EnsureSeed(context.Background(), directory.Seed()); err != nil {
		logging.Logger.Warn("failed to seed user directory", zap.Error(err))
	}

	dispatcher := notify.NewDispatcher(
		config.AppConfig.NotifyQueueSize,
		logging.Logger,
		notify.ConfiguredSinks(config.AppConfig)...,
	)
	dispatcher.Start()
	defer dispatcher.Stop()

	recon := services.NewReconstructor(gw, userDir, logging.Logger)
	negotiation := services.NewNegotiation(recon, gw, userStore, dispatcher, logging.Logger)
	syncer := services.NewSyncOrchestrator(
		negotiation,
		userDir,
		config.Redis,
		config.AppConfig.SyncBatchSize,
		config.AppConfig.SyncBatchDelay,
		logging.Logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	result, started := syncer.SyncAll(ctx)
	if !started {
		logging.Logger.Warn("another sync is already running, exiting")
		return
	}

	logging.Logger.Info("sync run finished",
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int("batches", result.Batches))
}
