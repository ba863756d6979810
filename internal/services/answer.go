package services

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// AnswerGenerator produces a reply for an inbound question. The pipeline only
// looks at the length of the result, never its content.
type AnswerGenerator interface {
	Generate(ctx context.Context, userText string) (string, error)
}

// MockAnswerer echoes the question back. It is used in development and
// whenever no API key is configured.
type MockAnswerer struct{}

// Generate implements AnswerGenerator.
func (MockAnswerer) Generate(_ context.Context, userText string) (string, error) {
	return "(mock) You said: " + truncateRunes(userText, 200), nil
}

// OpenAIOptions configures the live answer generator.
type OpenAIOptions struct {
	APIKey      string
	Model       string // defaults to gpt-4o-mini
	BaseURL     string // optional, e.g. a proxy or test server ("…/v1")
	Brand       string
	MaxTokens   int     // defaults to 300
	Temperature float32 // defaults to 0.2
}

// OpenAIAnswerer asks a chat-completion model for a short, plain-text reply.
type OpenAIAnswerer struct {
	client *openai.Client
	opts   OpenAIOptions
}

// NewOpenAIAnswerer builds a live answer generator.
func NewOpenAIAnswerer(opts OpenAIOptions) *OpenAIAnswerer {
	if opts.Model == "" {
		opts.Model = openai.GPT4oMini
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 300
	}
	if opts.Temperature <= 0 {
		opts.Temperature = 0.2
	}
	if opts.Brand == "" {
		opts.Brand = "BongaAI"
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &OpenAIAnswerer{client: openai.NewClientWithConfig(cfg), opts: opts}
}

// Generate implements AnswerGenerator.
func (a *OpenAIAnswerer) Generate(ctx context.Context, userText string) (string, error) {
	system := fmt.Sprintf("You are %s, an SMS assistant in South Africa. Keep answers under 3 SMS parts, plain text.", a.opts.Brand)
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
		MaxTokens:   a.opts.MaxTokens,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyAnswer
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyAnswer
	}
	return out, nil
}
