package wordseed

import "strings"

// DefaultLookahead is how many matches beyond the current one the resolver
// considers when forming a compound. Compounds in the static dictionary are
// 2-3 words, so a window of 2 suffices. Empirical, configurable.
const DefaultLookahead = 2

// CompoundResolver merges runs of adjacent single-word matches into one
// compound translation unit using a static compound dictionary.
//
// The dictionary maps the exact concatenation of consecutive per-word
// translations to the compound translation; e.g. with "my"→"我的" saved as
// a compound of "我"+"的", the dictionary holds "我的" → "my". The
// dictionary is loaded once at startup and never mutated.
type CompoundResolver struct {
	dict      map[string]string
	lookahead int
}

// Compound is a resolved multi-word replacement unit.
type Compound struct {
	Span        Span   // Covers all consumed spans plus the whitespace between them
	Display     string // Concatenated member translations (the dictionary key)
	Translation string // The compound's idiomatic translation (the dictionary value)
	Consumed    int    // Number of original match spans to consume (2 or 3)
}

// ResolverOption configures a CompoundResolver.
type ResolverOption func(*CompoundResolver)

// WithLookahead sets how many matches ahead of the current one are
// considered (default 2).
func WithLookahead(n int) ResolverOption {
	return func(r *CompoundResolver) {
		if n >= 0 {
			r.lookahead = n
		}
	}
}

// NewCompoundResolver creates a resolver over the given static dictionary.
// A nil or empty dictionary is valid and resolves nothing.
func NewCompoundResolver(dict map[string]string, opts ...ResolverOption) *CompoundResolver {
	r := &CompoundResolver{
		dict:      dict,
		lookahead: DefaultLookahead,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Len returns the number of compound entries.
func (r *CompoundResolver) Len() int {
	return len(r.dict)
}

// Resolve decides whether the match at spans[0] starts a compound.
//
// text is the block the spans were scanned from; lookup resolves a matched
// surface (lowercased by the caller's vocabulary convention) to its entry.
// Concatenations of consecutive translations are checked longest-first
// (3 words, then 2), so a 3-word compound always beats a 2-word prefix.
// Returns false when spans[0] should be treated as a single-word unit.
func (r *CompoundResolver) Resolve(text string, spans []Span, lookup func(string) (Entry, bool)) (Compound, bool) {
	if len(r.dict) == 0 || len(spans) < 2 {
		return Compound{}, false
	}

	max := 1 + r.lookahead
	if max > len(spans) {
		max = len(spans)
	}

	// Collect translations for the window. An unknown match ends it, and so
	// does any non-whitespace text between consecutive spans: members of a
	// compound must be adjacent words, or the merged span would swallow
	// unmatched text sitting in the gap.
	translations := make([]string, 0, max)
	for i, s := range spans[:max] {
		if i > 0 {
			gap := text[spans[i-1].End:s.Start]
			if strings.TrimSpace(gap) != "" {
				break
			}
		}
		entry, ok := lookup(s.Text)
		if !ok || entry.Translation == "" {
			break
		}
		translations = append(translations, entry.Translation)
	}

	for n := len(translations); n >= 2; n-- {
		concat := ""
		for _, t := range translations[:n] {
			concat += t
		}
		compound, ok := r.dict[concat]
		if !ok {
			continue
		}
		last := spans[n-1]
		return Compound{
			Span: Span{
				Start: spans[0].Start,
				End:   last.End,
				Text:  text[spans[0].Start:last.End],
			},
			Display:     concat,
			Translation: compound,
			Consumed:    n,
		}, true
	}

	return Compound{}, false
}
