package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/DjordjeVuckovic/news-desk/pkg/config/env"
	"github.com/redis/go-redis/v9"
)

type Type string

const (
	TypeMemory Type = "memory"
	TypeRedis  Type = "redis"
)

const (
	DefaultTTL  = 60 * time.Second
	DefaultSize = 256
)

type Config struct {
	Type          Type
	TTL           time.Duration
	Size          int
	RedisAddr     string
	RedisPassword string
	// BaseURL is where GET /revalidate is called after writes. Empty means
	// only the local page cache is dropped.
	BaseURL         string
	RevalidateToken string
}

func LoadConfigFromEnv() (*Config, error) {
	t := Type(env.String("CACHE_TYPE", string(TypeMemory)))
	if t != TypeMemory && t != TypeRedis {
		return nil, fmt.Errorf("unsupported CACHE_TYPE: %s", t)
	}
	ttl, err := env.Duration("CACHE_TTL", DefaultTTL)
	if err != nil {
		return nil, err
	}
	size, err := env.Int("CACHE_SIZE", DefaultSize)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Type:            t,
		TTL:             ttl,
		Size:            size,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		BaseURL:         os.Getenv("BASE_URL"),
		RevalidateToken: os.Getenv("REVALIDATE_TOKEN"),
	}
	if t == TypeRedis && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is required when CACHE_TYPE=redis")
	}
	return cfg, nil
}

// Pages is the page cache plus what the binary needs to report on and
// release it.
type Pages struct {
	Cache PageCache
	// Generations is shared by the cached reader and every local invalidator.
	Generations *Generations
	Health      interface{ Healthy(ctx context.Context) bool }
	Close       func()
}

func NewPages(ctx context.Context, cfg *Config) (*Pages, error) {
	switch cfg.Type {
	case TypeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		rc := NewRedisCache(client, cfg.TTL)
		slog.Info("Page cache uses redis", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
		return &Pages{Cache: rc, Generations: NewGenerations(), Health: rc, Close: func() { _ = client.Close() }}, nil
	default:
		slog.Info("Page cache uses memory", "size", cfg.Size, "ttl", cfg.TTL)
		return &Pages{Cache: NewMemoryCache(cfg.Size, cfg.TTL), Generations: NewGenerations(), Close: func() {}}, nil
	}
}

// NewInvalidator drops local pages and, when BaseURL is set, notifies the
// rendering layer.
func NewInvalidator(cfg *Config, pages PageCache, opts ...PageOption) (Invalidator, error) {
	local := NewPageInvalidator(pages, opts...)
	if cfg.BaseURL == "" {
		return local, nil
	}
	remote, err := NewHTTPInvalidator(cfg.BaseURL, WithToken(cfg.RevalidateToken))
	if err != nil {
		return nil, err
	}
	return Multi{local, remote}, nil
}
