package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"letterly/internal/collector"
	"letterly/internal/core"
	"letterly/internal/generator"
	"letterly/internal/logger"
	"letterly/internal/metrics"
	"letterly/internal/parser"
	"letterly/internal/reconcile"
)

// Request describes one newsletter generation.
type Request struct {
	Topic      string `json:"topic"`
	Tone       string `json:"tone"`       // professional (default), friendly, witty
	Model      string `json:"model_type"` // gemini (default) or gpt
	MaxResults int    `json:"max_results"`
}

// Pipeline wires the collector, the generator and the reconciler into the
// collect → generate → parse → reconcile flow. Collaborators are injected;
// nothing here reaches for ambient singletons.
type Pipeline struct {
	collector *collector.Collector
	generator *generator.Service
	filter    collector.URLFilter
}

// New creates a Pipeline.
func New(c *collector.Collector, g *generator.Service, filter collector.URLFilter) *Pipeline {
	metrics.Init()
	return &Pipeline{collector: c, generator: g, filter: filter}
}

// Generate produces a reconciled newsletter document for the request. It
// returns a *GenerationError or *ParseError when no document can be
// produced; per-item failures inside collection degrade silently.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*core.Document, error) {
	start := time.Now()
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	// Expand the topic into deep-dive queries and aggregate collections.
	queries := p.generator.ExpandTopic(ctx, req.Topic)
	logger.Info("Collecting resources", "topic", req.Topic, "queries", len(queries))

	var (
		articles []core.Article
		seenURLs = make(map[string]bool)
		pool     = core.NewImagePool()
		contexts strings.Builder
	)
	for _, q := range queries {
		col := p.collector.Collect(ctx, q, maxResults)
		for _, a := range col.Articles {
			if a.URL == "" || seenURLs[a.URL] {
				continue
			}
			seenURLs[a.URL] = true
			articles = append(articles, a)
		}
		pool.AddAll(col.Images)
		fmt.Fprintf(&contexts, "--- Query: %s ---\n%s\n\n", q, col.Context)
	}

	// One last liveness check before the sources feed injection.
	validSources, validURLs := p.filterSources(ctx, articles)
	logger.Info("Resources collected",
		"articles", len(articles), "valid_sources", len(validSources), "images", pool.Len())

	refined := p.generator.RefineContext(ctx, req.Topic, contexts.String())

	raw, err := p.generator.GenerateNewsletter(ctx, req.Model, req.Topic, req.Tone, refined, validSources)
	if err != nil {
		metrics.DocumentsTotal.WithLabelValues(req.Model, "generation_error").Inc()
		return nil, &GenerationError{Cause: err}
	}

	parsed, err := parser.Parse(raw)
	if err != nil {
		metrics.DocumentsTotal.WithLabelValues(req.Model, "parse_error").Inc()
		return nil, &ParseError{Cause: err}
	}

	stats := reconcile.Reconcile(parsed.Blocks, validSources, validURLs, pool.URLs())
	metrics.RepairsTotal.WithLabelValues("id").Add(float64(stats.IDsAssigned))
	metrics.RepairsTotal.WithLabelValues("link").Add(float64(stats.LinksRepaired))
	metrics.RepairsTotal.WithLabelValues("image").Add(float64(stats.ImagesInjected))

	title := parsed.Title
	if title == "" {
		title = fmt.Sprintf("%s Newsletter", req.Topic)
	}

	metrics.DocumentsTotal.WithLabelValues(req.Model, "ok").Inc()
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	logger.Info("Newsletter generated",
		"topic", req.Topic, "blocks", len(parsed.Blocks),
		"links_repaired", stats.LinksRepaired, "duration_ms", time.Since(start).Milliseconds())

	return &core.Document{
		ID:      uuid.NewString(),
		Title:   title,
		Blocks:  parsed.Blocks,
		Images:  pool.URLs(),
		Sources: articles,
	}, nil
}

// filterSources keeps only articles whose URL is still live. Order is
// preserved; the parallel URL list feeds the reconciler's membership check.
func (p *Pipeline) filterSources(ctx context.Context, articles []core.Article) ([]core.Article, []string) {
	urls := make([]string, 0, len(articles))
	for _, a := range articles {
		urls = append(urls, a.URL)
	}

	alive := make(map[string]bool)
	for _, u := range p.filter.FilterValid(ctx, urls, false) {
		alive[u] = true
	}

	var sources []core.Article
	var validURLs []string
	for _, a := range articles {
		if alive[a.URL] {
			sources = append(sources, a)
			validURLs = append(validURLs, a.URL)
		}
	}
	return sources, validURLs
}
