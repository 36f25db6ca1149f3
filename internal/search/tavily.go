package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"letterly/internal/logger"
)

const defaultTavilyBaseURL = "https://api.tavily.com"

// TavilyProvider implements Provider using the Tavily search API.
type TavilyProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewTavilyProvider creates a new Tavily search provider. An empty baseURL
// selects the public API endpoint.
func NewTavilyProvider(apiKey string, baseURL string) *TavilyProvider {
	if baseURL == "" {
		baseURL = defaultTavilyBaseURL
	}
	return &TavilyProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetName returns the name of this provider
func (t *TavilyProvider) GetName() string {
	return "Tavily"
}

// Search performs a search using the Tavily API
func (t *TavilyProvider) Search(ctx context.Context, query string, config Config) ([]Result, error) {
	reqBody := map[string]any{
		"api_key":             t.apiKey,
		"query":               query,
		"search_depth":        "advanced",
		"max_results":         config.MaxResults,
		"include_raw_content": config.IncludeRawPage,
		"include_answer":      false,
		"include_images":      false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode Tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create Tavily request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute Tavily request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Tavily request failed with status: %d", resp.StatusCode)
	}

	var apiResponse struct {
		Results []struct {
			Title         string `json:"title"`
			URL           string `json:"url"`
			Content       string `json:"content"`
			RawContent    string `json:"raw_content"`
			PublishedDate string `json:"published_date"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse Tavily response: %w", err)
	}

	var results []Result
	for i, item := range apiResponse.Results {
		results = append(results, Result{
			URL:           item.URL,
			Title:         item.Title,
			Content:       item.Content,
			RawContent:    item.RawContent,
			PublishedDate: item.PublishedDate,
			Source:        "Tavily",
			Rank:          i + 1,
		})
	}

	logger.Info("Tavily search completed", "query", query, "results_found", len(results))

	return results, nil
}
