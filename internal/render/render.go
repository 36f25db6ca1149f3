package render

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"letterly/internal/config"
	"letterly/internal/logger"
)

// Renderer discovers image URLs on a page using a real browser engine, so
// meta tags and script-inserted images are visible.
type Renderer interface {
	RenderImages(ctx context.Context, pageURL string) ([]string, error)
}

// nonHTMLExtensions lists resource types that never render as pages; a
// browser navigation on these triggers a download instead.
var nonHTMLExtensions = map[string]bool{
	".pdf":  true,
	".zip":  true,
	".gz":   true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".ppt":  true,
	".pptx": true,
	".mp4":  true,
	".mp3":  true,
}

// collectImagesJS gathers meta-tag images and inline <img> sources in DOM
// order, skipping data: URIs.
const collectImagesJS = `(() => {
	const out = [];
	const push = (u) => {
		if (u && !u.startsWith('data:')) out.push(u);
	};
	for (const sel of ['meta[property="og:image"]', 'meta[name="twitter:image"]']) {
		for (const el of document.querySelectorAll(sel)) push(el.content);
	}
	for (const el of document.querySelectorAll('img')) push(el.currentSrc || el.src);
	return out;
})()`

// ChromeRenderer implements Renderer with a headless Chrome instance driven
// over the DevTools protocol.
type ChromeRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	settleDelay time.Duration
}

// NewChromeRenderer creates a renderer backed by a shared browser allocator.
// Call Close when done to release the browser.
func NewChromeRenderer(cfg config.Render) *ChromeRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(`Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36`),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromeRenderer{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		timeout:     cfg.Timeout,
		settleDelay: cfg.SettleDelay,
	}
}

// RenderImages navigates to the page and returns the image URLs found in
// its rendered DOM. Non-HTML resources are skipped without launching a
// browser tab.
func (r *ChromeRenderer) RenderImages(ctx context.Context, pageURL string) ([]string, error) {
	if !likelyHTML(pageURL) {
		logger.Debug("Skipping render of non-HTML resource", "url", pageURL)
		return nil, nil
	}

	taskCtx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, r.timeout)
	defer cancel()

	// Stop early if the caller gave up.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-taskCtx.Done():
		}
	}()

	var images []string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(r.settleDelay),
		chromedp.Evaluate(collectImagesJS, &images),
	)
	if err != nil {
		return nil, err
	}

	return resolveRelative(pageURL, images), nil
}

// Close releases the underlying browser allocator.
func (r *ChromeRenderer) Close() {
	r.allocCancel()
}

// likelyHTML reports whether a URL plausibly points at a renderable page.
func likelyHTML(pageURL string) bool {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	if nonHTMLExtensions[ext] {
		return false
	}
	return !strings.Contains(parsed.Path, "/download/")
}

// resolveRelative makes every discovered image URL absolute against the
// page URL, dropping anything unparseable.
func resolveRelative(pageURL string, images []string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return images
	}
	var out []string
	for _, img := range images {
		ref, err := url.Parse(strings.TrimSpace(img))
		if err != nil || ref.String() == "" {
			continue
		}
		out = append(out, base.ResolveReference(ref).String())
	}
	return out
}
