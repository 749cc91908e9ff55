package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	AppEnv           string        `mapstructure:"APP_ENV"`
	Port             string        `mapstructure:"PORT"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	MigrationsSource string        `mapstructure:"MIGRATIONS_SOURCE"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	JWTAccessTTL     time.Duration `mapstructure:"JWT_ACCESS_TTL"`
	PageSize         int           `mapstructure:"PAGE_SIZE"`
	MaxPageSize      int           `mapstructure:"MAX_PAGE_SIZE"`
	RateLimitRPS     float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int           `mapstructure:"RATE_LIMIT_BURST"`
	CORSOrigins      string        `mapstructure:"CORS_ALLOWED_ORIGINS"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	MediaRoot     string `mapstructure:"MEDIA_ROOT"`
	MediaURL      string `mapstructure:"MEDIA_URL"`
	MaxImageBytes int64  `mapstructure:"MAX_IMAGE_BYTES"`
	S3Bucket      string `mapstructure:"S3_BUCKET"`
	S3Region      string `mapstructure:"S3_REGION"`
	S3Endpoint    string `mapstructure:"S3_ENDPOINT"`
	S3AccessKey   string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey   string `mapstructure:"S3_SECRET_KEY"`
	S3PublicURL   string `mapstructure:"S3_PUBLIC_URL"`
}

// Load reads configuration from the environment on top of built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "foodgram.db")
	v.SetDefault("MIGRATIONS_SOURCE", "")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ACCESS_TTL", "24h")
	v.SetDefault("PAGE_SIZE", 6)
	v.SetDefault("MAX_PAGE_SIZE", 100)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("STORAGE_DRIVER", StorageLocal)
	v.SetDefault("MEDIA_ROOT", "./media")
	v.SetDefault("MEDIA_URL", "/media")
	v.SetDefault("MAX_IMAGE_BYTES", 5*1024*1024)
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_PUBLIC_URL", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the app runs with production safeguards.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be > 0")
	}
	if cfg.MaxPageSize < cfg.PageSize {
		return fmt.Errorf("MAX_PAGE_SIZE must be >= PAGE_SIZE")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be > 0")
	}
	if cfg.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be > 0")
	}

	switch cfg.StorageDriver {
	case StorageLocal:
		if strings.TrimSpace(cfg.MediaRoot) == "" {
			return fmt.Errorf("MEDIA_ROOT must not be empty for local storage")
		}
	case StorageS3:
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return fmt.Errorf("S3_BUCKET must be set for s3 storage")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: local, s3")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
