package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logger"
	"foodgram/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.Init(cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if database.IsPostgres(cfg.DatabaseURL) {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsSource); err != nil {
			return err
		}
	} else if err := db.AutoMigrate(server.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := server.NewStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	log.Info("storage ready", zap.String("driver", cfg.StorageDriver))

	router := server.NewRouter(server.Deps{Config: cfg, DB: db, Storage: st, Logger: log})
	if err := server.Run(ctx, ":"+cfg.Port, router, log); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
