package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"printshop-bot/internal/api"
	"printshop-bot/internal/bot"
	"printshop-bot/internal/config"
	"printshop-bot/internal/order"
	"printshop-bot/internal/pricing"
	"printshop-bot/internal/storage"
	"printshop-bot/internal/users"
	"printshop-bot/pkg/logger"
	"printshop-bot/pkg/redis"
)

func main() {
	migrate := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrate); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(migrate string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	redisClient := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
	defer redisClient.Close()

	pgStorage, err := storage.NewPostgresStorage(ctx, cfg.Database, redisClient, zapLogger)
	if err != nil {
		zapLogger.Error("Failed to init PostgreSQL storage", zap.Error(err))
		return err
	}
	defer pgStorage.Close()

	if migrate != "" {
		return runMigrationCommand(ctx, migrate, pgStorage, zapLogger)
	}

	if err := storage.RunMigrations(ctx, pgStorage.DB().DB, zapLogger); err != nil {
		zapLogger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	prices := pricing.NewAdministrator(pgStorage, zapLogger)
	prices.Load(ctx)
	orders := order.NewService(pgStorage, zapLogger)
	registry := users.NewRegistry(pgStorage, cfg.Admin.IDs, cfg.Admin.Phones, zapLogger)

	g, ctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.NewServer(cfg.HTTP, prices, orders, pgStorage, zapLogger).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTP.RequestTimeout + 5*time.Second,
	}
	g.Go(func() error {
		zapLogger.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Telegram.Token != "" {
		tgBot, err := bot.New(cfg, bot.Deps{
			Pricing: prices,
			Orders:  orders,
			Users:   registry,
			State:   bot.NewStateStorage(redisClient),
			Limiter: pgStorage,
		}, zapLogger)
		if err != nil {
			zapLogger.Error("Failed to create bot", zap.Error(err))
			return err
		}
		g.Go(func() error {
			return tgBot.Start(ctx)
		})
	} else {
		zapLogger.Warn("TELEGRAM_TOKEN is not set, running the HTTP API only")
	}

	if err := g.Wait(); err != nil {
		zapLogger.Error("Stopped with error", zap.Error(err))
		return err
	}

	zapLogger.Info("Shutdown complete")
	return nil
}

func runMigrationCommand(ctx context.Context, command string, s *storage.PostgresStorage, logger *zap.Logger) error {
	db := s.DB().DB
	switch command {
	case "up":
		return storage.RunMigrations(ctx, db, logger)
	case "down":
		return storage.RollbackMigration(ctx, db, logger)
	case "status":
		return storage.MigrationStatus(ctx, db, logger)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}
