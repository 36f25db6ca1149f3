package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"letterly/internal/core"
	"letterly/internal/logger"
	"letterly/internal/render"
	"letterly/internal/search"
)

const (
	// maxCandidatesPerArticle bounds how many discovered image URLs go
	// through network validation for a single article.
	maxCandidatesPerArticle = 10
	// maxImagesPerArticle bounds how many validated images an article keeps.
	maxImagesPerArticle = 3
)

// URLFilter is the subset of the URL validator the collector depends on.
type URLFilter interface {
	FilterValid(ctx context.Context, urls []string, checkQuality bool) []string
}

// Collection is the output of one collect call: the raw articles, the
// deduplicated validated image pool, and a textual context blob for the
// generator.
type Collection struct {
	Articles []core.Article
	Images   []string
	Context  string
}

// Collector retrieves candidate articles for a topic and attaches validated
// images to each of them.
type Collector struct {
	provider    search.Provider
	renderer    render.Renderer
	filter      URLFilter
	concurrency int
	now         func() time.Time
}

// New creates a Collector. renderer may be nil, in which case image
// discovery relies on content scanning alone.
func New(provider search.Provider, renderer render.Renderer, filter URLFilter, concurrency int) *Collector {
	if concurrency <= 0 {
		concurrency = 5
	}
	return &Collector{
		provider:    provider,
		renderer:    renderer,
		filter:      filter,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Collect searches for the topic and assembles articles, the image pool and
// the generator context. A search failure degrades to the empty collection;
// a failure discovering images for one hit costs only that hit's images.
func (c *Collector) Collect(ctx context.Context, topic string, maxResults int) Collection {
	hits, err := c.provider.Search(ctx, topic, search.Config{
		MaxResults:     maxResults,
		IncludeRawPage: true,
	})
	if err != nil {
		logger.Error("Search failed, returning empty collection", err, "topic", topic)
		return Collection{Context: ""}
	}
	if len(hits) == 0 {
		return Collection{}
	}

	// Scatter: image discovery per hit is independent network/browser work.
	imagesPerHit := make([][]string, len(hits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, hit := range hits {
		g.Go(func() error {
			imagesPerHit[i] = c.discoverImages(gctx, hit)
			return nil
		})
	}
	_ = g.Wait()

	articles := make([]core.Article, 0, len(hits))
	for i, hit := range hits {
		published := hit.PublishedDate
		if published == "" {
			published = core.UnknownDate
		}
		articles = append(articles, core.Article{
			Title:            hit.Title,
			URL:              hit.URL,
			Content:          hit.Content,
			PublishedDate:    published,
			AssociatedImages: imagesPerHit[i],
		})
	}

	pool := core.NewImagePool()
	for _, a := range articles {
		pool.AddAll(a.AssociatedImages)
	}

	return Collection{
		Articles: articles,
		Images:   pool.URLs(),
		Context:  c.buildContext(articles, pool.URLs()),
	}
}

// discoverImages merges renderer-reported and content-scanned image URLs
// for one hit, validates them with quality checking on, and keeps the first
// few survivors. Renderer failure costs only the renderer's candidates.
func (c *Collector) discoverImages(ctx context.Context, hit search.Result) []string {
	merged := core.NewImagePool()

	if c.renderer != nil {
		rendered, err := c.renderer.RenderImages(ctx, hit.URL)
		if err != nil {
			logger.Warn("Page render failed, continuing without rendered images", "url", hit.URL, "error", err.Error())
		}
		merged.AddAll(rendered)
	}

	content := hit.RawContent
	if content == "" {
		content = hit.Content
	}
	merged.AddAll(render.ScanImages(content))

	candidates := merged.URLs()
	if len(candidates) > maxCandidatesPerArticle {
		candidates = candidates[:maxCandidatesPerArticle]
	}
	if len(candidates) == 0 {
		return nil
	}

	valid := c.filter.FilterValid(ctx, candidates, true)
	if len(valid) > maxImagesPerArticle {
		valid = valid[:maxImagesPerArticle]
	}
	return valid
}

// buildContext concatenates the articles and the image pool into the text
// blob handed to the generator.
func (c *Collector) buildContext(articles []core.Article, images []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today's date: %s\n\n", c.now().Format("2006-01-02"))

	for i, a := range articles {
		fmt.Fprintf(&b, "Article %d:\nTitle: %s\nPublished Date: %s\nURL: %s\nContent: %s\n",
			i+1, a.Title, a.PublishedDate, a.URL, a.Content)
	}

	if len(images) > 0 {
		b.WriteString("\n[Available Images]\n")
		b.WriteString(strings.Join(images, "\n"))
	}

	return b.String()
}
