// ABOUTME: AI provider abstraction and the OpenAI implementation
// ABOUTME: Providers turn a system prompt and a user message into a text reply
package assist

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Provider generates a completion for a system prompt and user message.
type Provider interface {
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
	Name() string
}

type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIProvider{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: 0.2,
		maxTokens:   800,
	}
}

func (p *OpenAIProvider) Name() string {
	return "OpenAI"
}

func (p *OpenAIProvider) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}
