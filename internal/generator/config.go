package generator

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/generator/openai"
	"github.com/DjordjeVuckovic/news-desk/internal/source"
	"github.com/DjordjeVuckovic/news-desk/pkg/config/env"
)

type Mode string

const (
	ModeAssistant Mode = "assistant"
	ModeChat      Mode = "chat"
)

type Config struct {
	Mode         Mode
	APIKey       string
	AssistantID  string
	BaseURL      string
	Model        string
	PollInterval time.Duration
	Timeout      time.Duration
	SourceFetch  bool
}

// LoadConfigFromEnv reads the generator settings. Missing secrets are not an
// error here; they surface as ErrConfiguration on each Generate call.
func LoadConfigFromEnv() (*Config, error) {
	mode := Mode(os.Getenv("GENERATOR_MODE"))
	switch mode {
	case "":
		mode = ModeAssistant
	case ModeAssistant, ModeChat:
	default:
		return nil, fmt.Errorf("unsupported GENERATOR_MODE: %s", mode)
	}

	pollInterval, err := env.Duration("GENERATOR_POLL_INTERVAL", DefaultPollInterval)
	if err != nil {
		return nil, err
	}
	timeout, err := env.Duration("GENERATOR_TIMEOUT", DefaultTimeout)
	if err != nil {
		return nil, err
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = openai.DefaultBaseURL
	}

	sourceFetch := env.Bool("SOURCE_FETCH_ENABLED")

	return &Config{
		Mode:         mode,
		APIKey:       os.Getenv("OPENAI_API_KEY"),
		AssistantID:  os.Getenv("OPENAI_ASSISTANT_ID"),
		BaseURL:      baseURL,
		Model:        os.Getenv("OPENAI_MODEL"),
		PollInterval: pollInterval,
		Timeout:      timeout,
		SourceFetch:  sourceFetch,
	}, nil
}

// New builds the generator for cfg.Mode.
func New(cfg *Config) (Generator, error) {
	client, err := openai.NewClient(cfg.BaseURL, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}

	opts := []Option{
		WithPollInterval(cfg.PollInterval),
		WithTimeout(cfg.Timeout),
		WithModel(cfg.Model),
	}
	if cfg.SourceFetch {
		opts = append(opts, WithSource(source.NewReadabilityFetcher()))
	}

	if cfg.APIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set, URL generation will fail")
	}

	switch cfg.Mode {
	case ModeChat:
		return NewChat(client, opts...), nil
	default:
		if cfg.AssistantID == "" {
			slog.Warn("OPENAI_ASSISTANT_ID is not set, URL generation will fail")
		}
		return NewAssistant(client, cfg.AssistantID, opts...), nil
	}
}
