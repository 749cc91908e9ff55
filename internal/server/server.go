// Package server assembles the HTTP API from the domain packages.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"foodgram/internal/config"
	"foodgram/internal/domain/follow"
	"foodgram/internal/domain/ingredient"
	"foodgram/internal/domain/recipe"
	"foodgram/internal/domain/shoppinglist"
	"foodgram/internal/domain/tag"
	"foodgram/internal/domain/user"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// Models lists every table for AutoMigrate.
func Models() []any {
	models := []any{&user.User{}, &follow.Follow{}, &tag.Tag{}, &ingredient.Ingredient{}}
	return append(models, recipe.Models()...)
}

type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Storage storage.Storage
	Logger  *zap.Logger
}

// NewRouter wires repositories, services and handlers under /api.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	userRepo := user.NewRepository(d.DB)
	tagRepo := tag.NewRepository(d.DB)
	ingredientRepo := ingredient.NewRepository(d.DB)
	recipeRepo := recipe.NewRepository(d.DB)

	followService := follow.NewService(follow.NewRepository(d.DB), userRepo, recipeRepo)
	userService := user.NewService(userRepo, tokens)
	recipeService := recipe.NewService(recipeRepo, ingredientRepo, tagRepo, d.Storage, cfg.MaxImageBytes)
	listService := shoppinglist.NewService(d.DB)

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.StorageDriver == config.StorageLocal && strings.HasPrefix(cfg.MediaURL, "/") {
		r.Static(cfg.MediaURL, cfg.MediaRoot)
	}

	api := r.Group("/api", middleware.RateLimit(limiter), middleware.Authenticate(tokens))

	user.NewHandler(userService, followService, cfg.PageSize, cfg.MaxPageSize).RegisterRoutes(api)
	follow.NewHandler(followService, cfg.PageSize, cfg.MaxPageSize).RegisterRoutes(api)
	tag.NewHandler(tagRepo).RegisterRoutes(api)
	ingredient.NewHandler(ingredientRepo).RegisterRoutes(api)
	recipe.NewHandler(recipeService, followService, cfg.PageSize, cfg.MaxPageSize).RegisterRoutes(api)
	shoppinglist.NewHandler(listService).RegisterRoutes(api)

	return r
}

// NewStorage picks local disk or S3 by cfg.StorageDriver.
func NewStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		return storage.NewS3(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	case config.StorageLocal, "":
		return storage.NewLocal(cfg.MediaRoot, cfg.MediaURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Run serves handler on addr until ctx is cancelled, then drains requests.
func Run(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
