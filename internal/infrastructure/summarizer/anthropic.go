package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-haiku-4-5"

// AnthropicProvider summarizes with the Anthropic Messages API
type AnthropicProvider struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func (c ProviderConfig) anthropicOptions() []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(c.APIKey),
		// one attempt per call; the caller decides what a failure means
		option.WithMaxRetries(0),
	}
	if c.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(c.BaseURL))
	}
	return opts
}

// NewAnthropicProvider creates a provider from cfg
func NewAnthropicProvider(cfg ProviderConfig) *AnthropicProvider {
	client := anthropic.NewClient(cfg.anthropicOptions()...)
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicProvider{
		client:    &client,
		model:     anthropic.Model(model),
		maxTokens: cfg.maxTokens(),
	}
}

// Name implements Provider
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) params(prompt Prompt) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: prompt.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
	}
}

// Complete implements Provider
func (p *AnthropicProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	resp, err := p.client.Messages.New(ctx, p.params(prompt))
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// StreamText implements Provider
func (p *AnthropicProvider) StreamText(ctx context.Context, prompt Prompt, emit func(string) bool) error {
	stream := p.client.Messages.NewStreaming(ctx, p.params(prompt))
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
		if !ok {
			continue
		}
		if !emit(text.Text) {
			return nil
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("anthropic stream error: %w", err)
	}
	return nil
}

var _ Provider = (*AnthropicProvider)(nil)
