// Package main News Desk API
// @title News Desk API
// @version 1.0
// @description Ingestion, generation and publishing API for the news site
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/DjordjeVuckovic/news-desk/docs"
	"github.com/DjordjeVuckovic/news-desk/internal/cache"
	"github.com/DjordjeVuckovic/news-desk/internal/generator"
	"github.com/DjordjeVuckovic/news-desk/internal/ingest"
	"github.com/DjordjeVuckovic/news-desk/internal/media"
	"github.com/DjordjeVuckovic/news-desk/internal/normalizer"
	"github.com/DjordjeVuckovic/news-desk/internal/router"
	"github.com/DjordjeVuckovic/news-desk/internal/server"
	"github.com/DjordjeVuckovic/news-desk/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-desk/internal/telegram"
	mw "github.com/DjordjeVuckovic/news-desk/pkg/middleware"
	pkgserver "github.com/DjordjeVuckovic/news-desk/pkg/server"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(sCfg.LogLevel)

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	health := pkgserver.NewCompositeHealthChecker()
	s := server.New(sCfg, health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics("/metrics").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "News Desk API is running")
	})

	stores, err := factory.New(s.Context(), &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create article store", "error", err)
		os.Exit(1)
	}
	health.Add("store", stores.Health)

	pages, err := cache.NewPages(s.Context(), &cfg.CacheConfig)
	if err != nil {
		slog.Error("Failed to create page cache", "error", err)
		stores.Close()
		os.Exit(1)
	}
	health.Add("cache", pages.Health)

	invalidator, err := cache.NewInvalidator(&cfg.CacheConfig, pages.Cache, cache.WithGenerations(pages.Generations))
	if err != nil {
		slog.Error("Failed to create cache invalidator", "error", err)
		os.Exit(1)
	}

	gen, err := generator.New(&cfg.GeneratorConfig)
	if err != nil {
		slog.Error("Failed to create content generator", "error", err)
		os.Exit(1)
	}

	svc := ingest.NewService(normalizer.New(), gen, stores.Store,
		ingest.WithInvalidator(invalidator),
		ingest.WithUploader(media.NewUploader(s.Context(), cfg.S3Config)),
	)

	limiter := mw.NewRateLimiter(s.Context(), rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	ingestRouter := router.NewIngestRouter(s.Echo, svc,
		router.WithIngestToken(cfg.IngestToken),
		router.WithTelegramAuthorizer(telegram.NewAuthorizer(cfg.TelegramSecret, cfg.TelegramAuthorizedIDs...)),
		router.WithIngestMiddleware(limiter.Middleware()),
	)
	ingestRouter.Bind()
	router.NewAdminRouter(s.Echo, svc, cfg.AdminToken).Bind()
	router.NewPublicRouter(s.Echo, cache.NewCachedReader(stores.Reader, pages.Cache, cache.WithGenerations(pages.Generations))).Bind()
	router.NewRevalidateRouter(s.Echo, cache.NewPageInvalidator(pages.Cache, cache.WithGenerations(pages.Generations)), cfg.CacheConfig.RevalidateToken).Bind()

	s.OnShutdown(func(ctx context.Context) {
		slog.Info("Waiting for background ingestions...")
		done := make(chan struct{})
		go func() {
			ingestRouter.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			slog.Warn("Background ingestions did not finish before shutdown")
		}
		pages.Close()
		stores.Close()
	})

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
