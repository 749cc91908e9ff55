package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, StorageLocal, cfg.StorageDriver)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("PAGE_SIZE", "10")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("S3_BUCKET", "recipes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, StorageS3, cfg.StorageDriver)
	assert.Equal(t, "recipes", cfg.S3Bucket)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"zero ttl":          {"JWT_ACCESS_TTL": "0s"},
		"zero page size":    {"PAGE_SIZE": "0"},
		"unknown storage":   {"STORAGE_DRIVER": "ftp"},
		"s3 without bucket": {"STORAGE_DRIVER": "s3"},
		"prod default key":  {"APP_ENV": "production"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProdWithSecret(t *testing.T) {
	t.Setenv("APP_ENV", "release")
	t.Setenv("JWT_SECRET", "a-real-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
