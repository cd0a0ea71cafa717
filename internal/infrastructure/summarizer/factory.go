package summarizer

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ProviderConfig holds the settings shared by LLM providers
type ProviderConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

func (c ProviderConfig) maxTokens() int64 {
	if c.MaxTokens <= 0 {
		return 1024
	}
	return int64(c.MaxTokens)
}

// Config selects a provider
type Config struct {
	Provider string // anthropic, openai, none
	ProviderConfig
	Timeout  time.Duration
	CacheTTL time.Duration
}

// New builds the Summarizer named by cfg.Provider. cache may be nil.
func New(cfg Config, cache Cache, logger *zap.Logger) (Summarizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var provider Provider
	switch cfg.Provider {
	case "", "none":
		logger.Info("summarizer disabled")
		return Disabled{}, nil
	case "anthropic":
		provider = NewAnthropicProvider(cfg.ProviderConfig)
	case "openai":
		provider = NewOpenAIProvider(cfg.ProviderConfig)
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.Provider)
	}

	opts := []ClientOption{WithTimeout(cfg.Timeout), WithLogger(logger)}
	if cache != nil && cfg.CacheTTL > 0 {
		opts = append(opts, WithCache(cache, cfg.CacheTTL))
	}
	return NewClient(provider, opts...), nil
}
