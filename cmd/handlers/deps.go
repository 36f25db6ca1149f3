package handlers

import (
	"context"
	"fmt"

	"letterly/internal/collector"
	"letterly/internal/config"
	"letterly/internal/generator"
	"letterly/internal/logger"
	"letterly/internal/pipeline"
	"letterly/internal/render"
	"letterly/internal/search"
	"letterly/internal/validate"
)

// buildPipeline wires the collaborators the pipeline needs from
// configuration. The returned cleanup releases the browser.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, func(), error) {
	factory := search.NewProviderFactory()
	provider, err := factory.CreateProvider(
		search.ProviderType(cfg.Search.Provider),
		map[string]string{
			"api_key":  cfg.Search.Tavily.APIKey,
			"base_url": cfg.Search.Tavily.BaseURL,
		},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search provider %q: %w", cfg.Search.Provider, err)
	}

	renderer := render.NewChromeRenderer(cfg.Render)
	validator := validate.New(cfg.Validate)

	clients := make(map[string]generator.Client)
	if cfg.AI.Gemini.APIKey != "" {
		gemini, err := generator.NewGeminiClient(ctx, cfg.AI.Gemini)
		if err != nil {
			renderer.Close()
			return nil, nil, err
		}
		clients[generator.ModelGemini] = gemini
	}
	if cfg.AI.OpenAI.APIKey != "" {
		gpt, err := generator.NewOpenAIClient(cfg.AI.OpenAI)
		if err != nil {
			renderer.Close()
			return nil, nil, err
		}
		clients[generator.ModelGPT] = gpt
	}
	if len(clients) == 0 {
		renderer.Close()
		return nil, nil, fmt.Errorf("no LLM configured. Set GEMINI_API_KEY or OPENAI_API_KEY")
	}

	col := collector.New(provider, renderer, validator, cfg.Render.Concurrency)
	svc := generator.NewService(clients)

	logger.Info("Pipeline ready",
		"search_provider", provider.GetName(), "llm_clients", len(clients))

	return pipeline.New(col, svc, validator), renderer.Close, nil
}
