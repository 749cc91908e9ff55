// Command load_data fills the ingredient and tag catalogs from CSV files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain/ingredient"
	"foodgram/internal/domain/tag"
	"foodgram/internal/logger"
	"foodgram/internal/server"
)

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.csv", "CSV of name,measurement_unit rows; empty to skip")
	tagsPath := flag.String("tags", "data/tags.csv", "CSV of name,color,slug rows; empty to skip")
	flag.Parse()

	if err := run(*ingredientsPath, *tagsPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ingredientsPath, tagsPath string) error {
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
		err = database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsSource)
	} else {
		err = db.AutoMigrate(server.Models()...)
	}
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx := context.Background()
	if ingredientsPath != "" {
		n, err := loadIngredients(ctx, db, ingredientsPath)
		if err != nil {
			return err
		}
		log.Info("ingredients loaded", zap.String("file", ingredientsPath), zap.Int("rows", n))
	}
	if tagsPath != "" {
		n, err := loadTags(ctx, db, tagsPath)
		if err != nil {
			return err
		}
		log.Info("tags loaded", zap.String("file", tagsPath), zap.Int("inserted", n))
	}
	return nil
}

func loadIngredients(ctx context.Context, db *gorm.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	items, err := ingredient.ParseCSV(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return ingredient.NewRepository(db).Import(ctx, items)
}

func loadTags(ctx context.Context, db *gorm.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	tags, err := tag.ParseCSV(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return tag.NewRepository(db).Insert(ctx, tags)
}
