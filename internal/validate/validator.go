package validate

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"letterly/internal/config"
	"letterly/internal/logger"
)

// browserUserAgent mimics a desktop browser; a number of sites reject
// requests carrying the default Go user agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// qualityDenylist marks URL substrings associated with decorative assets
// rather than content imagery. Checked only when quality checking is on.
var qualityDenylist = []string{
	"avatar",
	"icon",
	"favicon",
	"logo",
	"placeholder",
	"sprite",
	"spacer",
	"pixel",
	"1x1",
	"badge",
	"banner",
	"/ads/",
	"ad_",
	"tracking",
}

// Validator checks whether URLs are live, and optionally whether they look
// like substantive content images. It never returns errors: any failure is
// reported as "invalid".
type Validator struct {
	client        *http.Client
	minImageBytes int64
	concurrency   int
}

// New creates a Validator from configuration.
func New(cfg config.Validate) *Validator {
	return &Validator{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		minImageBytes: cfg.MinImageBytes,
		concurrency:   cfg.Concurrency,
	}
}

// IsValid reports whether the URL is live. With checkQuality set it also
// rejects URLs that look like decorative assets (denylisted substrings,
// declared size below the configured threshold).
func (v *Validator) IsValid(ctx context.Context, rawURL string, checkQuality bool) bool {
	if rawURL == "" || !strings.HasPrefix(rawURL, "http") {
		return false
	}

	if checkQuality && isDenylisted(rawURL) {
		return false
	}

	// Header-only probe first; some servers reject HEAD, so fall back to a
	// streamed GET whose body is never read.
	if resp, err := v.do(ctx, http.MethodHead, rawURL); err == nil {
		defer resp.Body.Close()
		if success(resp.StatusCode) {
			return v.qualityOK(resp, checkQuality)
		}
	}

	resp, err := v.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if !success(resp.StatusCode) {
		return false
	}
	return v.qualityOK(resp, checkQuality)
}

// FilterValid checks the candidates concurrently and returns the valid
// subset in input order.
func (v *Validator) FilterValid(ctx context.Context, urls []string, checkQuality bool) []string {
	if len(urls) == 0 {
		return nil
	}

	results := make([]bool, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			results[i] = v.IsValid(gctx, u, checkQuality)
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	var valid []string
	for i, u := range urls {
		if results[i] {
			valid = append(valid, u)
		}
	}
	if len(valid) < len(urls) {
		logger.Debug("URL validation dropped candidates", "in", len(urls), "out", len(valid))
	}
	return valid
}

func (v *Validator) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	return v.client.Do(req)
}

// qualityOK applies the declared-size check. A missing or unknown
// Content-Length does not reject; the threshold is a cheap filter, not a
// gate.
func (v *Validator) qualityOK(resp *http.Response, checkQuality bool) bool {
	if !checkQuality {
		return true
	}
	if resp.ContentLength > 0 && resp.ContentLength < v.minImageBytes {
		return false
	}
	return true
}

func success(status int) bool {
	return status >= 200 && status < 300
}

func isDenylisted(rawURL string) bool {
	lowered := strings.ToLower(rawURL)
	for _, marker := range qualityDenylist {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
