package wordseed

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// DefaultChunkSize is the number of vocabulary keys compiled into each
// alternation matcher. Large vocabularies are split into chunks of this
// size to keep individual patterns manageable. The value is empirical, not
// a correctness requirement; override it with WithChunkSize.
const DefaultChunkSize = 200

// Index derives an efficient multi-pattern matcher from the learner's
// vocabulary and rebuilds it only when the key set actually changes.
//
// The compiled matchers are exclusively owned by the Index; callers receive
// the slice but must not mutate it. All methods are safe for concurrent use.
type Index struct {
	mu        sync.Mutex
	chunkSize int
	logger    *slog.Logger

	signature string
	matchers  []*regexp.Regexp

	invalidate []func()
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithChunkSize sets the number of keys per compiled matcher chunk.
func WithChunkSize(n int) IndexOption {
	return func(ix *Index) {
		if n > 0 {
			ix.chunkSize = n
		}
	}
}

// WithIndexLogger sets the logger used to report dropped chunks.
func WithIndexLogger(l *slog.Logger) IndexOption {
	return func(ix *Index) {
		if l != nil {
			ix.logger = l
		}
	}
}

// NewIndex creates an empty vocabulary index.
func NewIndex(opts ...IndexOption) *Index {
	ix := &Index{
		chunkSize: DefaultChunkSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// OnInvalidate registers a callback fired after every actual rebuild.
// The rewriter uses this to drop its processed markers when the
// vocabulary changes.
func (ix *Index) OnInvalidate(fn func()) {
	ix.mu.Lock()
	ix.invalidate = append(ix.invalidate, fn)
	ix.mu.Unlock()
}

// Matchers returns the currently compiled matcher list without rebuilding.
func (ix *Index) Matchers() []*regexp.Regexp {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.matchers
}

// Sig returns the signature of the key set the current matchers were
// compiled from. Empty until the first rebuild.
func (ix *Index) Sig() string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.signature
}

// RebuildIfNeeded compiles matchers for the given vocabulary. If the key
// set is unchanged since the last call the cached matchers are returned
// unchanged; callers invoke this before every scan, so the no-op path must
// stay cheap.
//
// An empty vocabulary yields an empty matcher list, which makes scanning a
// no-op. A chunk that fails to compile is dropped and logged; the
// remaining chunks still match.
func (ix *Index) RebuildIfNeeded(vocab Vocabulary) []*regexp.Regexp {
	sig := Signature(vocab)

	ix.mu.Lock()
	if sig == ix.signature && ix.matchers != nil {
		m := ix.matchers
		ix.mu.Unlock()
		return m
	}

	matchers := compileChunks(vocab, ix.chunkSize, ix.logger)
	ix.signature = sig
	ix.matchers = matchers
	callbacks := make([]func(), len(ix.invalidate))
	copy(callbacks, ix.invalidate)
	ix.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
	return matchers
}

// compileChunks builds one case-insensitive, word-boundary-anchored
// alternation matcher per chunk of keys.
func compileChunks(vocab Vocabulary, chunkSize int, logger *slog.Logger) []*regexp.Regexp {
	if len(vocab) == 0 {
		return []*regexp.Regexp{}
	}

	keys := make([]string, 0, len(vocab))
	for k := range vocab {
		if strings.TrimSpace(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	// Longer keys first so the leftmost-first alternation prefers the
	// longest match at a shared start offset; length ties broken
	// lexicographically for determinism.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	var matchers []*regexp.Regexp
	for start := 0; start < len(keys); start += chunkSize {
		end := start + chunkSize
		if end > len(keys) {
			end = len(keys)
		}

		escaped := make([]string, 0, end-start)
		for _, k := range keys[start:end] {
			escaped = append(escaped, regexp.QuoteMeta(k))
		}

		pattern := `(?i)\b(?:` + strings.Join(escaped, "|") + `)\b`
		re, err := regexp.Compile(pattern)
		if err != nil {
			// Keys are quoted, so this should not happen; drop the
			// chunk and keep the rest of the vocabulary matching.
			logger.Warn("dropping vocabulary chunk that failed to compile",
				"chunk", start/chunkSize, "keys", end-start, "err", err)
			continue
		}
		matchers = append(matchers, re)
	}

	if matchers == nil {
		matchers = []*regexp.Regexp{}
	}
	return matchers
}
