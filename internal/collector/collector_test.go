package collector

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"letterly/internal/core"
	"letterly/internal/search"
)

// fakeRenderer returns canned image lists per URL and can fail selectively.
type fakeRenderer struct {
	images map[string][]string
	fail   map[string]bool
}

func (f *fakeRenderer) RenderImages(_ context.Context, url string) ([]string, error) {
	if f.fail[url] {
		return nil, errors.New("browser crashed")
	}
	return f.images[url], nil
}

// passAllFilter accepts every candidate.
type passAllFilter struct{}

func (passAllFilter) FilterValid(_ context.Context, urls []string, _ bool) []string {
	return urls
}

// denyFilter rejects an exact set of URLs and keeps order otherwise.
type denyFilter struct {
	deny map[string]bool
}

func (f denyFilter) FilterValid(_ context.Context, urls []string, _ bool) []string {
	var out []string
	for _, u := range urls {
		if !f.deny[u] {
			out = append(out, u)
		}
	}
	return out
}

func newTestCollector(provider search.Provider, renderer *fakeRenderer, filter URLFilter) *Collector {
	c := New(provider, nil, filter, 4)
	if renderer != nil {
		c.renderer = renderer
	}
	c.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestCollectAssemblesArticlesAndPool(t *testing.T) {
	provider := search.NewMockProvider()
	provider.SetResults([]search.Result{
		{URL: "https://a.example.org/1", Title: "First", Content: "Alpha", PublishedDate: "2025-05-30"},
		{URL: "https://b.example.org/2", Title: "Second", Content: "Beta"},
	})
	renderer := &fakeRenderer{images: map[string][]string{
		"https://a.example.org/1": {"https://a.example.org/img1.png", "https://a.example.org/img2.png"},
		"https://b.example.org/2": {"https://a.example.org/img1.png", "https://b.example.org/img3.png"},
	}}

	c := newTestCollector(provider, renderer, passAllFilter{})
	got := c.Collect(context.Background(), "ai news", 5)

	if len(got.Articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(got.Articles))
	}
	if got.Articles[0].PublishedDate != "2025-05-30" {
		t.Errorf("Expected reported date kept, got %q", got.Articles[0].PublishedDate)
	}
	if got.Articles[1].PublishedDate != core.UnknownDate {
		t.Errorf("Expected %q for missing date, got %q", core.UnknownDate, got.Articles[1].PublishedDate)
	}

	// img1 appears under both articles but only once in the pool.
	wantPool := []string{
		"https://a.example.org/img1.png",
		"https://a.example.org/img2.png",
		"https://b.example.org/img3.png",
	}
	if !reflect.DeepEqual(got.Images, wantPool) {
		t.Errorf("Expected pool %v, got %v", wantPool, got.Images)
	}
}

func TestCollectSearchErrorReturnsEmptyCollection(t *testing.T) {
	provider := search.NewMockProvider()
	provider.SetError(errors.New("provider down"))

	c := newTestCollector(provider, nil, passAllFilter{})
	got := c.Collect(context.Background(), "ai news", 5)

	if len(got.Articles) != 0 || len(got.Images) != 0 || got.Context != "" {
		t.Errorf("Expected empty collection on search error, got %+v", got)
	}
}

func TestCollectRendererFailureIsolatedPerHit(t *testing.T) {
	provider := search.NewMockProvider()
	provider.SetResults([]search.Result{
		{URL: "https://a.example.org/1", Title: "Works"},
		{URL: "https://b.example.org/2", Title: "Crashes"},
	})
	renderer := &fakeRenderer{
		images: map[string][]string{
			"https://a.example.org/1": {"https://a.example.org/img.png"},
		},
		fail: map[string]bool{"https://b.example.org/2": true},
	}

	c := newTestCollector(provider, renderer, passAllFilter{})
	got := c.Collect(context.Background(), "ai news", 5)

	if len(got.Articles) != 2 {
		t.Fatalf("Expected both articles despite render failure, got %d", len(got.Articles))
	}
	if want := []string{"https://a.example.org/img.png"}; !reflect.DeepEqual(got.Articles[0].AssociatedImages, want) {
		t.Errorf("Expected %v for healthy article, got %v", want, got.Articles[0].AssociatedImages)
	}
	if len(got.Articles[1].AssociatedImages) != 0 {
		t.Errorf("Expected no images for failed article, got %v", got.Articles[1].AssociatedImages)
	}
}

func TestCollectCapsImagesPerArticle(t *testing.T) {
	provider := search.NewMockProvider()
	provider.SetResults([]search.Result{{URL: "https://a.example.org/1", Title: "Busy"}})

	many := make([]string, 8)
	for i := range many {
		many[i] = fmt.Sprintf("https://a.example.org/img%d.png", i)
	}
	renderer := &fakeRenderer{images: map[string][]string{"https://a.example.org/1": many}}

	c := newTestCollector(provider, renderer, passAllFilter{})
	got := c.Collect(context.Background(), "ai news", 5)

	if len(got.Articles[0].AssociatedImages) != maxImagesPerArticle {
		t.Errorf("Expected %d images kept, got %d", maxImagesPerArticle, len(got.Articles[0].AssociatedImages))
	}
	if !reflect.DeepEqual(got.Articles[0].AssociatedImages, many[:maxImagesPerArticle]) {
		t.Errorf("Expected first survivors in order, got %v", got.Articles[0].AssociatedImages)
	}
}

func TestCollectFiltersRejectedImages(t *testing.T) {
	provider := search.NewMockProvider()
	provider.SetResults([]search.Result{{URL: "https://a.example.org/1", Title: "Mixed"}})
	renderer := &fakeRenderer{images: map[string][]string{
		"https://a.example.org/1": {
			"https://a.example.org/good.png",
			"https://a.example.org/dead.png",
			"https://a.example.org/also-good.png",
		},
	}}
	filter := denyFilter{deny: map[string]bool{"https://a.example.org/dead.png": true}}

	c := newTestCollector(provider, renderer, filter)
	got := c.Collect(context.Background(), "ai news", 5)

	want := []string{"https://a.example.org/good.png", "https://a.example.org/also-good.png"}
	if !reflect.DeepEqual(got.Articles[0].AssociatedImages, want) {
		t.Errorf("Expected %v, got %v", want, got.Articles[0].AssociatedImages)
	}
}

func TestCollectScansContentWithoutRenderer(t *testing.T) {
	provider := search.NewMockProvider()
	provider.SetResults([]search.Result{{
		URL:        "https://a.example.org/1",
		Title:      "Markdown",
		RawContent: "Intro ![alt](https://a.example.org/inline.png) outro",
	}})

	c := newTestCollector(provider, nil, passAllFilter{})
	got := c.Collect(context.Background(), "ai news", 5)

	want := []string{"https://a.example.org/inline.png"}
	if !reflect.DeepEqual(got.Articles[0].AssociatedImages, want) {
		t.Errorf("Expected scanned image %v, got %v", want, got.Articles[0].AssociatedImages)
	}
}

func TestBuildContextFormat(t *testing.T) {
	provider := search.NewMockProvider()
	provider.SetResults([]search.Result{
		{URL: "https://a.example.org/1", Title: "First", Content: "Alpha", PublishedDate: "2025-05-30"},
	})
	renderer := &fakeRenderer{images: map[string][]string{
		"https://a.example.org/1": {"https://a.example.org/img.png"},
	}}

	c := newTestCollector(provider, renderer, passAllFilter{})
	got := c.Collect(context.Background(), "ai news", 5)

	checks := []string{
		"Today's date: 2025-06-01\n\n",
		"Article 1:\nTitle: First (for query: ai news)\nPublished Date: 2025-05-30\nURL: https://a.example.org/1\nContent: Alpha\n",
		"\n[Available Images]\nhttps://a.example.org/img.png",
	}
	for _, want := range checks {
		if !strings.Contains(got.Context, want) {
			t.Errorf("Context missing %q:\n%s", want, got.Context)
		}
	}
}

func TestBuildContextOmitsImageSectionWhenEmpty(t *testing.T) {
	provider := search.NewMockProvider()
	provider.SetResults([]search.Result{{URL: "https://a.example.org/1", Title: "Bare"}})

	c := newTestCollector(provider, nil, passAllFilter{})
	got := c.Collect(context.Background(), "ai news", 5)

	if strings.Contains(got.Context, "[Available Images]") {
		t.Errorf("Expected no image section, got:\n%s", got.Context)
	}
}
