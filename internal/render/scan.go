package render

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// Matches markdown images: ![alt](url)
	markdownImageRegex = regexp.MustCompile(`!\[[^\]]*\]\((https?://[^\s)]+)\)`)

	// Matches bare image URLs in plain text
	imageURLRegex = regexp.MustCompile(`https?://[^\s"'<>)]+\.(?:png|jpe?g|gif|webp|avif)(?:\?[^\s"'<>)]*)?`)
)

// ScanImages extracts candidate image URLs from raw article content: HTML
// <img> tags, markdown image references, and bare image links. Order of
// first appearance is preserved; duplicates are dropped.
func ScanImages(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	var found []string
	seen := make(map[string]bool)
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" || !strings.HasPrefix(u, "http") || seen[u] {
			return
		}
		seen[u] = true
		found = append(found, u)
	}

	if strings.Contains(content, "<img") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
			doc.Find("img").Each(func(_ int, s *goquery.Selection) {
				if src, ok := s.Attr("src"); ok {
					add(src)
				} else if src, ok := s.Attr("data-src"); ok {
					add(src)
				}
			})
		}
	}

	for _, m := range markdownImageRegex.FindAllStringSubmatch(content, -1) {
		add(m[1])
	}
	for _, m := range imageURLRegex.FindAllString(content, -1) {
		add(m)
	}

	return found
}
