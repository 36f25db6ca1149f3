package core

// Article represents a single search hit enriched with the images that
// survived validation for that page.
type Article struct {
	Title            string   `json:"title"`             // Title of the article
	URL              string   `json:"url"`               // Canonical URL of the article
	Content          string   `json:"content"`           // Content excerpt used for prompting
	PublishedDate    string   `json:"published_date"`    // Publication date as reported by the search provider
	AssociatedImages []string `json:"associated_images"` // Up to three validated image URLs found on the page
}

// Block is one structured unit of a generated newsletter. The content schema
// varies by type (header, main_story, quick_hits, ...); the reconciler only
// touches the id, link/url and image_url fields.
type Block struct {
	ID      string         `json:"id"`      // Assigned during reconciliation if the generator omitted it
	Type    string         `json:"type"`    // Block kind declared by the generator
	Content map[string]any `json:"content"` // Type-specific payload
}

// Document is the finished newsletter returned to the caller.
type Document struct {
	ID      string    `json:"id"`      // Unique identifier for this generation
	Title   string    `json:"title"`   // Management title for the newsletter
	Blocks  []Block   `json:"blocks"`  // Ordered, reconciled blocks
	Images  []string  `json:"images"`  // Deduplicated pool of validated image URLs
	Sources []Article `json:"sources"` // Raw articles the newsletter was built from
}

// UnknownDate is the sentinel published date used when the search provider
// reports none.
const UnknownDate = "date unknown"

// ImagePool is an order-preserving, deduplicating collection of image URLs.
// Insertion order is first-seen order; exact string duplicates are dropped.
type ImagePool struct {
	urls []string
	seen map[string]bool
}

// NewImagePool creates an empty pool.
func NewImagePool() *ImagePool {
	return &ImagePool{seen: make(map[string]bool)}
}

// Add inserts a URL unless it is empty or already present. It reports
// whether the URL was added.
func (p *ImagePool) Add(url string) bool {
	if url == "" || p.seen[url] {
		return false
	}
	p.seen[url] = true
	p.urls = append(p.urls, url)
	return true
}

// AddAll inserts each URL in order.
func (p *ImagePool) AddAll(urls []string) {
	for _, u := range urls {
		p.Add(u)
	}
}

// Contains reports whether the pool holds the exact URL.
func (p *ImagePool) Contains(url string) bool {
	return p.seen[url]
}

// Len returns the number of distinct URLs in the pool.
func (p *ImagePool) Len() int {
	return len(p.urls)
}

// URLs returns the pool contents in first-seen order. The returned slice is
// a copy; mutating it does not affect the pool.
func (p *ImagePool) URLs() []string {
	out := make([]string, len(p.urls))
	copy(out, p.urls)
	return out
}

// Link returns the block's link-like value: the "link" field, falling back
// to "url" when "link" is absent. Non-string values count as absent.
func (b *Block) Link() string {
	if b.Content == nil {
		return ""
	}
	if s, ok := b.Content["link"].(string); ok && s != "" {
		return s
	}
	if s, ok := b.Content["url"].(string); ok {
		return s
	}
	return ""
}

// SetLink overwrites whichever of the "link"/"url" fields are present in
// the block content. A block carrying neither field gets a "link" field.
func (b *Block) SetLink(url string) {
	if b.Content == nil {
		b.Content = make(map[string]any)
	}
	_, hasLink := b.Content["link"]
	_, hasURL := b.Content["url"]
	if hasLink || !hasURL {
		b.Content["link"] = url
	}
	if hasURL {
		b.Content["url"] = url
	}
}

// ImageURL returns the block's image_url field, or "" when absent or not a
// string.
func (b *Block) ImageURL() string {
	if b.Content == nil {
		return ""
	}
	s, _ := b.Content["image_url"].(string)
	return s
}

// SetImageURL sets the block's image_url field, creating it if needed.
func (b *Block) SetImageURL(url string) {
	if b.Content == nil {
		b.Content = make(map[string]any)
	}
	b.Content["image_url"] = url
}
