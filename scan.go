package wordseed

import (
	"regexp"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultScanCacheSize is the number of memoized scan results kept by a
// Scanner. Subtitle streams repeat cue text frequently; at a few hundred
// bytes per entry this stays well under a megabyte.
const DefaultScanCacheSize = 4096

// Scan finds all vocabulary occurrences in text and resolves overlaps into
// a sorted, non-overlapping span list.
//
// Overlap precedence: the earlier start offset wins; at an identical start
// the longer match wins; a match starting before a kept match's end is
// dropped entirely (first-match-wins, no partial trims). Scanning is
// idempotent and has no side effects; zero matches yields nil.
func Scan(text string, matchers []*regexp.Regexp) []Span {
	if text == "" || len(matchers) == 0 {
		return nil
	}

	var raw []Span
	for _, re := range matchers {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			raw = append(raw, Span{
				Start: loc[0],
				End:   loc[1],
				Text:  text[loc[0]:loc[1]],
			})
		}
	}
	if len(raw) == 0 {
		return nil
	}

	sort.Slice(raw, func(i, j int) bool {
		if raw[i].Start != raw[j].Start {
			return raw[i].Start < raw[j].Start
		}
		return raw[i].End > raw[j].End
	})

	spans := raw[:0]
	lastEnd := -1
	for _, s := range raw {
		if s.Start < lastEnd {
			continue
		}
		spans = append(spans, s)
		lastEnd = s.End
	}
	return spans
}

// Scanner memoizes Scan results per (text, vocabulary signature) in an LRU
// cache. Use one Scanner per Index; it consults the index's current
// signature on every call, so a vocabulary change naturally misses.
type Scanner struct {
	index *Index
	cache *lru.Cache[string, []Span]
}

// NewScanner creates a memoizing scanner over the given index.
// If cacheSize is <= 0, DefaultScanCacheSize is used.
func NewScanner(index *Index, cacheSize int) *Scanner {
	if cacheSize <= 0 {
		cacheSize = DefaultScanCacheSize
	}
	cache, _ := lru.New[string, []Span](cacheSize)
	return &Scanner{
		index: index,
		cache: cache,
	}
}

// Scan returns the span list for text under the index's current matchers,
// serving repeated blocks from the cache.
func (sc *Scanner) Scan(text string) []Span {
	key := HashText(text) + ":" + sc.index.Sig()
	if spans, ok := sc.cache.Get(key); ok {
		return spans
	}
	spans := Scan(text, sc.index.Matchers())
	sc.cache.Add(key, spans)
	return spans
}

// Index returns the underlying vocabulary index.
func (sc *Scanner) Index() *Index {
	return sc.index
}
