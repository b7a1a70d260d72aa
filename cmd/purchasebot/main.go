package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"purchase-bot/internal/bot"
	"purchase-bot/internal/config"
	"purchase-bot/internal/storage"
	"purchase-bot/pkg/content"
	"purchase-bot/pkg/redis"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// ENTRY POINT

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load config", zap.Error(err))
	}

	redisClient := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	pgStorage, err := storage.NewPostgresStorage(ctx, cfg, redisClient, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init PostgreSQL storage", zap.Error(err))
	}
	defer pgStorage.Close()

	if err := storage.RunMigrations(ctx, pgStorage.DB(), zapLogger); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	loader := content.NewLoader(cfg.ContentRequestTimeout, zapLogger)

	tgBot, err := bot.New(cfg, pgStorage, loader, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create bot", zap.Error(err))
	}

	if err := tgBot.Start(ctx); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}
