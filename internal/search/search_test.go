package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProviderTypeConstants(t *testing.T) {
	expectedTypes := map[ProviderType]string{
		ProviderTypeTavily: "tavily",
		ProviderTypeMock:   "mock",
	}

	for providerType, expectedValue := range expectedTypes {
		if string(providerType) != expectedValue {
			t.Errorf("Expected %s to be %s, got %s", providerType, expectedValue, string(providerType))
		}
	}
}

func TestCreateProvider(t *testing.T) {
	factory := NewProviderFactory()

	tests := []struct {
		name         string
		providerType ProviderType
		config       map[string]string
		wantName     string
		wantErr      error
	}{
		{
			name:         "tavily with api key",
			providerType: ProviderTypeTavily,
			config:       map[string]string{"api_key": "tvly-test"},
			wantName:     "Tavily",
		},
		{
			name:         "tavily without api key",
			providerType: ProviderTypeTavily,
			config:       map[string]string{},
			wantErr:      ErrMissingAPIKey,
		},
		{
			name:         "mock needs no config",
			providerType: ProviderTypeMock,
			config:       nil,
			wantName:     "Mock",
		},
		{
			name:         "unknown provider",
			providerType: ProviderType("altavista"),
			wantErr:      ErrUnsupportedProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := factory.CreateProvider(tt.providerType, tt.config)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if provider.GetName() != tt.wantName {
				t.Errorf("Expected provider %q, got %q", tt.wantName, provider.GetName())
			}
		})
	}
}

func TestMockProviderRespectsMaxResults(t *testing.T) {
	provider := NewMockProvider()

	results, err := provider.Search(context.Background(), "anything", Config{MaxResults: 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}

func TestTavilySearch(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Unreadable request body: %v", err)
		}
		w.Write([]byte(`{
			"results": [
				{"title": "First", "url": "https://a.example.org/1", "content": "Alpha", "raw_content": "<html>Alpha</html>", "published_date": "2025-05-30"},
				{"title": "Second", "url": "https://b.example.org/2", "content": "Beta"}
			]
		}`))
	}))
	defer srv.Close()

	provider := NewTavilyProvider("tvly-test", srv.URL)
	results, err := provider.Search(context.Background(), "ai news", Config{MaxResults: 5, IncludeRawPage: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotBody["api_key"] != "tvly-test" || gotBody["query"] != "ai news" {
		t.Errorf("Unexpected request payload: %v", gotBody)
	}
	if gotBody["search_depth"] != "advanced" {
		t.Errorf("Expected advanced search depth, got %v", gotBody["search_depth"])
	}
	if gotBody["include_raw_content"] != true {
		t.Errorf("Expected raw content requested, got %v", gotBody["include_raw_content"])
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	first := results[0]
	if first.URL != "https://a.example.org/1" || first.Title != "First" {
		t.Errorf("Unexpected first result: %+v", first)
	}
	if first.RawContent != "<html>Alpha</html>" || first.PublishedDate != "2025-05-30" {
		t.Errorf("Raw fields not mapped: %+v", first)
	}
	if first.Source != "Tavily" || first.Rank != 1 {
		t.Errorf("Expected Tavily source with rank 1, got %+v", first)
	}
	if results[1].PublishedDate != "" {
		t.Errorf("Expected empty date when the provider omits it, got %q", results[1].PublishedDate)
	}
}

func TestTavilySearchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	provider := NewTavilyProvider("tvly-test", srv.URL)
	_, err := provider.Search(context.Background(), "ai", Config{MaxResults: 5})
	if err == nil {
		t.Fatal("Expected an error for a non-200 response")
	}
}
