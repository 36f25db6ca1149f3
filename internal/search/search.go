package search

import (
	"context"
)

// Provider defines the unified interface for search providers.
type Provider interface {
	// Search performs a search with configuration
	Search(ctx context.Context, query string, config Config) ([]Result, error)

	// GetName returns the name of the search provider
	GetName() string
}

// Config holds configuration for search requests
type Config struct {
	MaxResults     int  // Maximum number of results to return
	IncludeRawPage bool // Request full page content when the provider supports it
}

// Result represents a unified search result
type Result struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Content       string `json:"content"`        // Provider-built excerpt of the page
	RawContent    string `json:"raw_content"`    // Full page content when requested, often HTML
	PublishedDate string `json:"published_date"` // Empty when the provider reports none
	Source        string `json:"source"`         // Provider-specific source identifier
	Rank          int    `json:"rank"`           // Position in search results
}

// ProviderType represents the type of search provider
type ProviderType string

const (
	ProviderTypeTavily ProviderType = "tavily"
	ProviderTypeMock   ProviderType = "mock"
)

// ProviderFactory creates search providers based on type and configuration
type ProviderFactory struct{}

// NewProviderFactory creates a new provider factory
func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

// CreateProvider creates a search provider of the specified type
func (f *ProviderFactory) CreateProvider(providerType ProviderType, config map[string]string) (Provider, error) {
	switch providerType {
	case ProviderTypeTavily:
		apiKey, exists := config["api_key"]
		if !exists || apiKey == "" {
			return nil, ErrMissingAPIKey
		}
		baseURL := config["base_url"]
		return NewTavilyProvider(apiKey, baseURL), nil
	case ProviderTypeMock:
		return NewMockProvider(), nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
