package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/news-desk/internal/generator"
	"github.com/DjordjeVuckovic/news-desk/internal/storage/factory"
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

type NewsWriterConfig struct {
	StorageConfig   factory.StorageConfig
	GeneratorConfig generator.Config
	// BaseURL receives GET /revalidate after each write when set.
	BaseURL         string
	RevalidateToken string
}

func (as *AppConfig) Load() (*NewsWriterConfig, error) {
	if err := env.LoadDotEnv(as.ENV, "cmd/news_writer/.env"); err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
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

	return &NewsWriterConfig{
		StorageConfig:   *storageCfg,
		GeneratorConfig: *genCfg,
		BaseURL:         os.Getenv("BASE_URL"),
		RevalidateToken: os.Getenv("REVALIDATE_TOKEN"),
	}, nil
}
