package media

import (
	"context"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/news-desk/pkg/config/env"
)

// LoadS3ConfigFromEnv returns nil when S3_BUCKET is unset.
func LoadS3ConfigFromEnv() *S3Config {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return nil
	}
	return &S3Config{
		Bucket:        bucket,
		Region:        os.Getenv("S3_REGION"),
		Endpoint:      os.Getenv("S3_ENDPOINT"),
		PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		UsePathStyle:  env.Bool("S3_USE_PATH_STYLE"),
	}
}

// NewUploader falls back to NoopUploader when S3 is not configured or the
// client cannot be built.
func NewUploader(ctx context.Context, cfg *S3Config) Uploader {
	if cfg == nil {
		slog.Info("Image upload disabled, S3_BUCKET is not set")
		return NoopUploader{}
	}
	u, err := NewS3Uploader(ctx, *cfg)
	if err != nil {
		slog.Error("Failed to create S3 uploader, image upload disabled", "error", err)
		return NoopUploader{}
	}
	return u
}
