package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/news-desk/internal/cache"
	"github.com/DjordjeVuckovic/news-desk/internal/generator"
	"github.com/DjordjeVuckovic/news-desk/internal/media"
	"github.com/DjordjeVuckovic/news-desk/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-desk/internal/telegram"
	"github.com/DjordjeVuckovic/news-desk/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type NewsAPIConfig struct {
	StorageConfig   factory.StorageConfig
	GeneratorConfig generator.Config
	CacheConfig     cache.Config
	S3Config        *media.S3Config
	RateLimit       RateLimitConfig

	IngestToken           string
	AdminToken            string
	TelegramSecret        string
	TelegramAuthorizedIDs []int64
}

func (as *AppConfig) Load() (*NewsAPIConfig, error) {
	if err := env.LoadDotEnv(as.ENV, "cmd/news_api/.env"); err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	genCfg, err := generator.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("generator config: %w", err)
	}

	cacheCfg, err := cache.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("cache config: %w", err)
	}

	rps, err := env.Float("RATE_LIMIT_RPS", 1)
	if err != nil {
		return nil, err
	}
	burst, err := env.Int("RATE_LIMIT_BURST", 5)
	if err != nil {
		return nil, err
	}

	userIDs, err := telegram.ParseUserIDs(os.Getenv("TELEGRAM_AUTHORIZED_USERS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_AUTHORIZED_USERS: %w", err)
	}

	cfg := &NewsAPIConfig{
		StorageConfig:         *storageCfg,
		GeneratorConfig:       *genCfg,
		CacheConfig:           *cacheCfg,
		S3Config:              media.LoadS3ConfigFromEnv(),
		RateLimit:             RateLimitConfig{RPS: rps, Burst: burst},
		IngestToken:           os.Getenv("INGEST_TOKEN"),
		AdminToken:            os.Getenv("ADMIN_TOKEN"),
		TelegramSecret:        os.Getenv("TELEGRAM_WEBHOOK_SECRET"),
		TelegramAuthorizedIDs: userIDs,
	}

	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN is not set, admin routes are unauthenticated")
	}
	return cfg, nil
}
