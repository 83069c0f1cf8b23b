// Package collect gathers annotations from the visible portions of a
// live document. Only on-screen text needs decorating, so the collector
// re-parses exactly the windows the host reports as visible.
package collect

import (
	"strconv"
	"strings"
	"sync"

	"github.com/dshills/sidenote/internal/annotation"
)

// TextSource provides read access to document text.
type TextSource interface {
	// TextRange returns the text within [from, to).
	TextRange(from, to int) string

	// Revision returns a counter that changes whenever the document
	// text changes. Used only for cache invalidation.
	Revision() uint64
}

// Collector parses annotations from visible document windows.
//
// Collection is a full re-parse on every call; the cache exists only to
// skip redundant work when neither the window set nor the document has
// changed (selection-only updates are the common case).
type Collector struct {
	mu sync.Mutex

	source TextSource

	// cache maps a window-set key to its parse result.
	cache map[string][]annotation.Annotation

	// maxCacheSize bounds the cache.
	maxCacheSize int
}

// NewCollector creates a collector over the given text source.
func NewCollector(source TextSource) *Collector {
	return &Collector{
		source:       source,
		cache:        make(map[string][]annotation.Annotation),
		maxCacheSize: 64,
	}
}

// Collect parses every visible window and returns the combined
// annotation list sorted by SyntaxFrom ascending.
//
// Windows are expected to be disjoint. An annotation whose syntax spans
// a window boundary is not recognized; the host is responsible for
// extending windows past syntax it wants decorated.
func (c *Collector) Collect(windows []annotation.Span) []annotation.Annotation {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(c.source.Revision(), windows)
	if cached, ok := c.cache[key]; ok {
		return cached
	}

	var anns []annotation.Annotation
	for _, w := range windows {
		if w.IsEmpty() {
			continue
		}
		text := c.source.TextRange(w.From, w.To)
		anns = append(anns, annotation.ParseLine(text, w.From)...)
	}
	annotation.Sort(anns)

	c.store(key, anns)
	return anns
}

// Invalidate drops all cached results.
func (c *Collector) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string][]annotation.Annotation)
}

// store caches a result, evicting everything if the cache is full.
// Revisions only move forward, so stale entries never win again.
func (c *Collector) store(key string, anns []annotation.Annotation) {
	if len(c.cache) >= c.maxCacheSize {
		c.cache = make(map[string][]annotation.Annotation)
	}
	c.cache[key] = anns
}

// cacheKey builds a key from the document revision and exact window set.
func cacheKey(revision uint64, windows []annotation.Span) string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(revision, 10))
	for _, w := range windows {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(w.From))
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(w.To))
	}
	return sb.String()
}
