package generator

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"letterly/internal/config"
)

// DefaultOpenAIModel is used when configuration names no model.
const DefaultOpenAIModel = "gpt-4o"

const openAISystemPrompt = "You are a helpful assistant designed to output JSON."

// OpenAIClient implements Client on the OpenAI chat completions API.
type OpenAIClient struct {
	client *openai.Client
	model  openai.ChatModel
}

// NewOpenAIClient creates a GPT-backed client.
func NewOpenAIClient(cfg config.OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required. Set OPENAI_API_KEY or ai.openai.api_key in config")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &OpenAIClient{
		client: &client,
		model:  openai.ChatModel(model),
	}, nil
}

// Name returns the model selector this client serves.
func (c *OpenAIClient) Name() string {
	return ModelGPT
}

// Generate runs the prompt and returns the model's text output.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openAISystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}
