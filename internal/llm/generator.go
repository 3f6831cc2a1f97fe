package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ChatAPI is the slice of the OpenAI client the generator needs.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator performs single-turn answer synthesis. The whole assembled
// prompt goes out as one user-role message; there is no multi-message
// conversation state on the wire.
type Generator struct {
	api   ChatAPI
	model string
}

// NewGenerator creates a Generator backed by the OpenAI API.
func NewGenerator(cfg Config) *Generator {
	return NewGeneratorWithAPI(newAPIClient(cfg), cfg)
}

// NewGeneratorWithAPI creates a Generator with an explicit API implementation.
func NewGeneratorWithAPI(api ChatAPI, cfg Config) *Generator {
	model := cfg.ChatModel
	if model == "" {
		model = DefaultChatModel
	}
	return &Generator{api: api, model: model}
}

// Generate returns the model's completion for the prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyInput
	}

	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
