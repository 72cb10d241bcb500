package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/baidrudra06/kiddie-stock-adventures-sub000/config"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/cache"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/kvstore"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/repository/postgres"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/data/session"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/catalog"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/externalApi/catalogApi"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/market"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/reportGenerator/xslsxGenerator"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/scheduler"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/service/stockGameService"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/tgbot"
	"github.com/baidrudra06/kiddie-stock-adventures-sub000/internal/transport/telegram"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(pgClient)

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)
	redisSession := session.NewRedisSession(redisClient, cfg)
	snapshots := kvstore.NewRedis(redisClient)

	stockCatalog := catalog.NewDefault()
	catalogApiClient := catalogApi.New(cfg)

	marketGen := market.New()

	reportGenerator := xslsxGenerator.New()

	googleCloudStorage := googleDriveApi.New(ctx, cfg)

	gameSrv := stockGameService.New(cfg, pgRepo, redisCache, snapshots, stockCatalog, catalogApiClient, marketGen, reportGenerator, googleCloudStorage)

	sched := scheduler.New()
	sched.NewIntervalJob("refresh prices", gameSrv.RefreshPrices, cfg.Jobs.RefreshPricesInterval, true)
	sched.NewIntervalJob("rotate news", gameSrv.RotateNews, cfg.Jobs.RotateNewsInterval, true)
	sched.NewIntervalJob("refresh catalog", gameSrv.RefreshCatalog, cfg.Jobs.RefreshCatalogInterval, false)
	sched.NewIntervalJob("drive cleanup", googleCloudStorage.DeleteOldFiles, cfg.Jobs.DriveCleanupInterval, false)
	sched.Start()
	defer sched.Stop()

	tgController := telegram.NewController(cfg, gameSrv, redisSession)

	tgBot := tgbot.New(cfg, tgController, redisSession)
	tgBot.Start()
	defer tgBot.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
