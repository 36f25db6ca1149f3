package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"letterly/internal/core"
	"letterly/internal/logger"
	"letterly/internal/parser"
)

// Client generates free text from a prompt. Output is untrusted: it may or
// may not be well-formed JSON.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Model selectors accepted from callers.
const (
	ModelGemini = "gemini"
	ModelGPT    = "gpt"
)

// ErrUnknownModel is returned for a model selector no client is registered
// under.
var ErrUnknownModel = errors.New("unknown model selector")

// Service wraps the registered LLM clients and the prompt strategy: topic
// expansion, context refinement, and newsletter generation.
type Service struct {
	clients map[string]Client
	now     func() time.Time
}

// NewService creates a Service over the given clients, keyed by model
// selector. Missing providers simply stay unregistered; selecting them
// fails at request time.
func NewService(clients map[string]Client) *Service {
	return &Service{clients: clients, now: time.Now}
}

// ClientFor resolves a model selector ("" means gemini).
func (s *Service) ClientFor(model string) (Client, error) {
	if model == "" {
		model = ModelGemini
	}
	c, ok := s.clients[model]
	if !ok || c == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return c, nil
}

// defaultClient prefers gemini for the cheap auxiliary calls and falls back
// to any registered client.
func (s *Service) defaultClient() Client {
	if c, ok := s.clients[ModelGemini]; ok && c != nil {
		return c
	}
	for _, c := range s.clients {
		if c != nil {
			return c
		}
	}
	return nil
}

// ExpandTopic asks the model for three deep-dive queries covering trends,
// market impact and concrete cases. Any failure falls back to the topic
// itself; expansion is an enhancement, never a gate.
func (s *Service) ExpandTopic(ctx context.Context, topic string) []string {
	client := s.defaultClient()
	if client == nil {
		return []string{topic}
	}

	raw, err := client.Generate(ctx, buildExpandTopicPrompt(topic))
	if err != nil {
		logger.Warn("Topic expansion failed, using raw topic", "topic", topic, "error", err.Error())
		return []string{topic}
	}

	var queries []string
	if err := json.Unmarshal([]byte(parser.Clean(raw)), &queries); err != nil || len(queries) == 0 {
		logger.Warn("Topic expansion returned no usable queries, using raw topic", "topic", topic)
		return []string{topic}
	}
	return queries
}

// RefineContext distills the raw collected context into a knowledge base
// for the newsletter prompt. Failure falls back to the raw context.
func (s *Service) RefineContext(ctx context.Context, topic string, rawContext string) string {
	client := s.defaultClient()
	if client == nil || rawContext == "" {
		return rawContext
	}

	refined, err := client.Generate(ctx, buildRefineContextPrompt(topic, rawContext))
	if err != nil || refined == "" {
		if err != nil {
			logger.Warn("Context refinement failed, using raw context", "topic", topic, "error", err.Error())
		}
		return rawContext
	}
	return refined
}

// GenerateNewsletter runs the full newsletter prompt on the selected model
// and returns the raw output text. Parsing is the caller's concern.
func (s *Service) GenerateNewsletter(ctx context.Context, model, topic, tone, refinedContext string, articles []core.Article) (string, error) {
	client, err := s.ClientFor(model)
	if err != nil {
		return "", err
	}

	prompt := buildNewsletterPrompt(topic, tone, s.now().Format("January 2, 2006"), refinedContext, articles)
	raw, err := client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("newsletter generation with %s failed: %w", client.Name(), err)
	}
	return raw, nil
}
