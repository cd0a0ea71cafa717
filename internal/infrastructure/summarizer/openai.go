package summarizer

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = openai.ChatModelGPT4oMini

// OpenAIProvider summarizes with the OpenAI chat completions API
type OpenAIProvider struct {
	client    *openai.Client
	model     openai.ChatModel
	maxTokens int64
}

// NewOpenAIProvider creates a provider from cfg
func NewOpenAIProvider(cfg ProviderConfig) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	model := openai.ChatModel(cfg.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		client:    &client,
		model:     model,
		maxTokens: cfg.maxTokens(),
	}
}

// Name implements Provider
func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) params(prompt Prompt) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		MaxCompletionTokens: openai.Int(p.maxTokens),
	}
}

// Complete implements Provider
func (p *OpenAIProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, p.params(prompt))
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// StreamText implements Provider
func (p *OpenAIProvider) StreamText(ctx context.Context, prompt Prompt, emit func(string) bool) error {
	stream := p.client.Chat.Completions.NewStreaming(ctx, p.params(prompt))
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if !emit(chunk.Choices[0].Delta.Content) {
			return nil
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("openai stream error: %w", err)
	}
	return nil
}

var _ Provider = (*OpenAIProvider)(nil)
