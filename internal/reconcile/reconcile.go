package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"letterly/internal/core"
	"letterly/internal/logger"
)

// placeholderMarker flags a link the generator invented instead of citing a
// real source.
const placeholderMarker = "example.com"

// Stats counts the repairs applied during one reconciliation pass.
type Stats struct {
	IDsAssigned    int // Blocks that were missing an id
	LinksRepaired  int // Link/url fields overwritten with a source URL
	ImagesInjected int // image_url fields set or replaced
	BlocksFailed   int // Blocks left as generated after a repair failure
}

// Reconcile repairs the generated blocks in place against the validated
// resource pool: every block gets an id, link-like fields are forced onto
// validated source URLs, and image_url fields are forced onto validated
// imagery. A failure repairing one block is logged and costs only that
// block.
func Reconcile(blocks []core.Block, validSources []core.Article, validURLs []string, imagePool []string) Stats {
	urlSet := make(map[string]bool, len(validURLs))
	for _, u := range validURLs {
		urlSet[u] = true
	}
	poolSet := make(map[string]bool, len(imagePool))
	for _, u := range imagePool {
		poolSet[u] = true
	}

	var stats Stats
	for i := range blocks {
		if err := reconcileBlock(i, &blocks[i], validSources, urlSet, imagePool, poolSet, &stats); err != nil {
			stats.BlocksFailed++
			logger.Error("Block reconciliation failed, leaving block as generated", err,
				"block_index", i, "block_type", blocks[i].Type)
		}
	}
	return stats
}

// reconcileBlock repairs a single block. Panics from malformed content are
// converted to errors so reconciliation of the remaining blocks continues.
func reconcileBlock(i int, block *core.Block, validSources []core.Article, urlSet map[string]bool, imagePool []string, poolSet map[string]bool, stats *Stats) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic reconciling block: %v", r)
		}
	}()

	if block.ID == "" {
		block.ID = strconv.Itoa(i + 1)
		stats.IDsAssigned++
	}

	// Link repair. With no validated URLs at all, membership cannot be
	// checked and any non-empty, non-placeholder link passes. That
	// asymmetry is deliberate.
	var currentSource *core.Article
	link := block.Link()
	invalid := link == "" ||
		strings.Contains(link, placeholderMarker) ||
		(len(urlSet) > 0 && !urlSet[link])

	if invalid {
		if len(validSources) > 0 {
			src := &validSources[roundRobin(i, len(validSources))]
			block.SetLink(src.URL)
			currentSource = src
			stats.LinksRepaired++
		}
	} else {
		currentSource = findSourceByURL(validSources, link)
	}

	// Image repair: source-specific imagery wins over the generic pool.
	if currentSource != nil && len(currentSource.AssociatedImages) > 0 {
		block.SetImageURL(currentSource.AssociatedImages[0])
		stats.ImagesInjected++
		return nil
	}
	if img := block.ImageURL(); (img == "" || !poolSet[img]) && len(imagePool) > 0 {
		block.SetImageURL(imagePool[roundRobin(i, len(imagePool))])
		stats.ImagesInjected++
	}
	return nil
}

// roundRobin deterministically distributes a finite resource set across an
// arbitrary number of blocks. Both link and image repair use it so the two
// policies cannot drift apart.
func roundRobin(index, count int) int {
	return index % count
}

func findSourceByURL(sources []core.Article, url string) *core.Article {
	for i := range sources {
		if sources[i].URL == url {
			return &sources[i]
		}
	}
	return nil
}
