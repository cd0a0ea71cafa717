// Package summarizer produces plain-language summaries of SAFE deals through an LLM.
package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds every provider call
const DefaultTimeout = 30 * time.Second

// Summarizer turns a prompt into summary text
type Summarizer interface {
	// Summarize returns the whole summary at once
	Summarize(ctx context.Context, prompt Prompt) (string, error)
	// Stream yields summary chunks as the provider produces them.
	// The sequence is finite and can be ranged over once.
	Stream(ctx context.Context, prompt Prompt) iter.Seq2[string, error]
}

// Provider is a single LLM backend
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt Prompt) (string, error)
	// StreamText calls emit for every text delta until emit returns false
	StreamText(ctx context.Context, prompt Prompt, emit func(chunk string) bool) error
}

// Cache stores finished summaries keyed by prompt
type Cache interface {
	GetSummary(ctx context.Context, key string) (string, bool, error)
	SetSummary(ctx context.Context, key, summary string, ttl time.Duration) error
}

// Client wraps a Provider with the call bound, error classification and caching
type Client struct {
	provider Provider
	timeout  time.Duration
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTimeout overrides the per-call bound; values above DefaultTimeout are clamped
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 && d <= DefaultTimeout {
			c.timeout = d
		}
	}
}

// WithCache serves repeated single-shot prompts from cache
func WithCache(cache Cache, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client around provider
func NewClient(provider Provider, opts ...ClientOption) *Client {
	c := &Client{
		provider: provider,
		timeout:  DefaultTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Summarize implements Summarizer
func (c *Client) Summarize(ctx context.Context, prompt Prompt) (string, error) {
	key := c.cacheKey(prompt)
	if c.cache != nil {
		cached, ok, err := c.cache.GetSummary(ctx, key)
		if err != nil {
			c.logger.Warn("summary cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.provider.Complete(callCtx, prompt)
	if err != nil {
		return "", c.classify(ctx, callCtx, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", newSummarizeError(ErrCodeEmptyResponse, c.provider.Name(), "provider returned no text", nil)
	}

	c.logger.Debug("summary generated",
		zap.String("provider", c.provider.Name()),
		zap.Duration("duration", time.Since(start)),
		zap.Int("chars", len(text)))

	if c.cache != nil {
		if err := c.cache.SetSummary(ctx, key, text, c.cacheTTL); err != nil {
			c.logger.Warn("summary cache write failed", zap.Error(err))
		}
	}
	return text, nil
}

// Stream implements Summarizer. The bound covers the whole stream.
func (c *Client) Stream(ctx context.Context, prompt Prompt) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		emitted := false
		stopped := false
		err := c.provider.StreamText(callCtx, prompt, func(chunk string) bool {
			if chunk == "" {
				return true
			}
			emitted = true
			if !yield(chunk, nil) {
				stopped = true
				return false
			}
			return true
		})
		if stopped {
			return
		}
		if err != nil {
			yield("", c.classify(ctx, callCtx, err))
			return
		}
		if !emitted {
			yield("", newSummarizeError(ErrCodeEmptyResponse, c.provider.Name(), "provider returned no text", nil))
		}
	}
}

func (c *Client) classify(parent, callCtx context.Context, err error) error {
	if parent.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return newSummarizeError(ErrCodeTimeout, c.provider.Name(),
			"summary was not produced within "+c.timeout.String(), err)
	}
	if parent.Err() != nil {
		return parent.Err()
	}
	c.logger.Warn("summary provider failed", zap.String("provider", c.provider.Name()), zap.Error(err))
	return newSummarizeError(ErrCodeProviderFailed, c.provider.Name(), "summary provider request failed", err)
}

func (c *Client) cacheKey(prompt Prompt) string {
	h := sha256.New()
	h.Write([]byte(c.provider.Name()))
	h.Write([]byte{0})
	h.Write([]byte(prompt.System))
	h.Write([]byte{0})
	h.Write([]byte(prompt.User))
	return "summary:" + hex.EncodeToString(h.Sum(nil))
}

// Disabled is the Summarizer used when no provider is configured
type Disabled struct{}

// Summarize always fails with ErrSummarizerDisabled
func (Disabled) Summarize(context.Context, Prompt) (string, error) {
	return "", ErrSummarizerDisabled
}

// Stream yields ErrSummarizerDisabled once
func (Disabled) Stream(context.Context, Prompt) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield("", ErrSummarizerDisabled)
	}
}

var (
	_ Summarizer = (*Client)(nil)
	_ Summarizer = Disabled{}
)
