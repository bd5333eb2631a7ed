package wordseed

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Rewriter walks a subtree's text nodes and replaces matched vocabulary
// spans with generated annotation units, leaving non-matched text and the
// surrounding markup untouched.
//
// Each text node is processed at most once: nodes that have been scanned
// (matched or not) are marked and skipped on later passes, until the
// vocabulary changes or Reset is called. All methods are safe for
// concurrent use, and each text node's replacement is atomic with respect
// to other Rewriter calls.
type Rewriter struct {
	mu        sync.Mutex
	index     *Index
	scanner   *Scanner
	compounds *CompoundResolver
	vocab     Vocabulary
	mode      Mode
	lang      string
	logger    *slog.Logger

	// processed marks text nodes as "already scanned, do not rescan".
	// Cleared wholesale on vocabulary change or Reset; entries for nodes
	// removed from their document are dropped lazily on the next clear.
	processed map[*html.Node]struct{}
}

// RewriterOption configures a Rewriter.
type RewriterOption func(*Rewriter)

// WithMode sets the replacement policy (default ModeLearn).
func WithMode(mode Mode) RewriterOption {
	return func(rw *Rewriter) {
		rw.mode = mode
	}
}

// WithCompounds sets the compound resolver consulted at each match.
func WithCompounds(r *CompoundResolver) RewriterOption {
	return func(rw *Rewriter) {
		rw.compounds = r
	}
}

// WithLang declares the language of the vocabulary's translations
// (e.g. "zh_CN"). Generated units in learn mode carry matching lang and
// dir attributes so mixed-direction text renders correctly.
func WithLang(lang string) RewriterOption {
	return func(rw *Rewriter) {
		rw.lang = NormalizeLocale(lang)
	}
}

// WithRewriteLogger sets the logger used for skipped-node diagnostics.
func WithRewriteLogger(l *slog.Logger) RewriterOption {
	return func(rw *Rewriter) {
		if l != nil {
			rw.logger = l
		}
	}
}

// WithScanCacheSize sets the scanner memoization size (default
// DefaultScanCacheSize).
func WithScanCacheSize(n int) RewriterOption {
	return func(rw *Rewriter) {
		rw.scanner = NewScanner(rw.index, n)
	}
}

// NewRewriter creates a rewriter over the given index. The rewriter
// registers itself for the index's invalidation events: an actual rebuild
// clears all processed markers so the whole document is rescanned.
func NewRewriter(index *Index, opts ...RewriterOption) *Rewriter {
	rw := &Rewriter{
		index:     index,
		compounds: NewCompoundResolver(nil),
		mode:      ModeLearn,
		logger:    slog.Default(),
		processed: make(map[*html.Node]struct{}),
	}
	rw.scanner = NewScanner(index, DefaultScanCacheSize)
	for _, opt := range opts {
		opt(rw)
	}
	index.OnInvalidate(rw.Reset)
	return rw
}

// SetVocabulary installs a vocabulary snapshot and rebuilds the index if
// the key set changed. A changed key set invalidates all processed markers
// via the index's invalidation event.
func (rw *Rewriter) SetVocabulary(vocab Vocabulary) {
	rw.mu.Lock()
	rw.vocab = vocab
	rw.mu.Unlock()
	rw.index.RebuildIfNeeded(vocab)
}

// SetMode switches the replacement policy. Already-rewritten nodes keep
// their units; call Reset and reprocess to re-render under the new mode.
func (rw *Rewriter) SetMode(mode Mode) {
	rw.mu.Lock()
	rw.mode = mode
	rw.mu.Unlock()
}

// Reset clears all processed markers, returning every node under the
// document to the unseen state.
func (rw *Rewriter) Reset() {
	rw.mu.Lock()
	rw.processed = make(map[*html.Node]struct{})
	rw.mu.Unlock()
}

// Processed reports whether the node has already been scanned.
func (rw *Rewriter) Processed(n *html.Node) bool {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	_, ok := rw.processed[n]
	return ok
}

// ProcessSubtree traverses root's text-bearing descendants in document
// order and rewrites matched spans. Non-translatable elements (script,
// style, form controls, code, preformatted text), generated units and
// opted-out subtrees are skipped, as are whitespace-only text nodes and
// nodes already marked processed.
func (rw *Rewriter) ProcessSubtree(root *html.Node) Stats {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	var stats Stats
	if root == nil {
		return stats
	}

	// Collect first: replacement splices siblings into the tree, and the
	// walk must not revisit them.
	var textNodes []*html.Node
	collectTextNodes(root, &textNodes)

	for _, n := range textNodes {
		rw.processTextNode(n, &stats)
	}
	return stats
}

// RewriteHTML parses an HTML document or fragment, rewrites it in place
// and returns the serialized result. Convenience wrapper over
// ProcessSubtree for whole-document and subtitle-block callers.
func (rw *Rewriter) RewriteHTML(content string) (string, *Stats, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", nil, &RewriteError{Message: "failed to parse HTML", Cause: err}
	}

	var stats Stats
	doc.Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			stats.Add(rw.ProcessSubtree(n))
		}
	})

	out, err := doc.Html()
	if err != nil {
		return "", nil, &RewriteError{Message: "failed to serialize HTML", Cause: err}
	}
	return out, &stats, nil
}

// collectTextNodes gathers translatable text nodes in document order,
// honoring the element skip rules.
func collectTextNodes(n *html.Node, out *[]*html.Node) {
	if n.Type == html.ElementNode {
		if SkippedTags[strings.ToLower(n.Data)] {
			return
		}
		for _, attr := range n.Attr {
			if attr.Key == AttrUnit || attr.Key == AttrSkip {
				return
			}
		}
	}

	if n.Type == html.TextNode {
		if strings.TrimSpace(n.Data) != "" {
			*out = append(*out, n)
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectTextNodes(c, out)
	}
}

// processTextNode scans one text node and, when spans are found, replaces
// it with a fragment alternating plain-text runs and generated units.
// Must be called with rw.mu held.
func (rw *Rewriter) processTextNode(n *html.Node, stats *Stats) {
	if _, done := rw.processed[n]; done {
		stats.Skipped++
		return
	}
	stats.TextNodes++

	text := n.Data
	spans := rw.scanner.Scan(text)
	if len(spans) == 0 {
		// Cheap early exit: most text nodes on a typical page contain
		// zero vocabulary hits.
		rw.processed[n] = struct{}{}
		return
	}

	parent := n.Parent
	if parent == nil {
		// Node detached between scheduling and processing.
		rw.logger.Debug("skipping detached text node", "text", truncate(text, 40))
		return
	}

	fragment := rw.buildFragment(text, spans, stats)

	// Single splice per text node: insert the whole fragment, then drop
	// the original, so no observer sees a half-rewritten state.
	for _, piece := range fragment {
		parent.InsertBefore(piece, n)
		if piece.Type == html.TextNode {
			rw.processed[piece] = struct{}{}
		}
	}
	parent.RemoveChild(n)
	delete(rw.processed, n)
	stats.Rewritten++
}

// buildFragment assembles the replacement node sequence for a scanned text
// block, consulting the compound resolver at each span.
func (rw *Rewriter) buildFragment(text string, spans []Span, stats *Stats) []*html.Node {
	lookup := func(surface string) (Entry, bool) {
		entry, ok := rw.vocab[strings.ToLower(surface)]
		return entry, ok
	}

	var fragment []*html.Node
	cursor := 0
	for i := 0; i < len(spans); {
		var (
			span         Span
			display      string
			translation  string
			romanization string
			isCompound   bool
			consumed     = 1
		)

		if c, ok := rw.compounds.Resolve(text, spans[i:], lookup); ok {
			span = c.Span
			display = c.Display
			translation = c.Translation
			romanization = joinRomanizations(spans[i:i+c.Consumed], lookup)
			isCompound = true
			consumed = c.Consumed
		} else {
			span = spans[i]
			entry, known := lookup(span.Text)
			if !known {
				// Matcher and vocabulary disagree; treat as plain text
				// rather than emit a unit with no translation.
				i++
				continue
			}
			display = entry.Translation
			translation = entry.Translation
			romanization = entry.Romanization
		}

		if span.Start > cursor {
			fragment = append(fragment, textNode(text[cursor:span.Start]))
		}
		fragment = append(fragment, rw.makeUnit(span.Text, display, translation, romanization, isCompound))
		stats.Units++
		if isCompound {
			stats.Compounds++
		}

		cursor = span.End
		i += consumed
	}
	if cursor < len(text) {
		fragment = append(fragment, textNode(text[cursor:]))
	}
	return fragment
}

// makeUnit builds one generated annotation unit. The original surface,
// translation and romanization ride along as inert attributes for hover
// and read-aloud collaborators. display is what learn mode shows; for a
// compound it is the concatenated member translations rather than the
// compound's own translation.
func (rw *Rewriter) makeUnit(surface, display, translation, romanization string, compound bool) *html.Node {
	class := ClassWord
	if compound {
		class = ClassCompound
	}

	attrs := []html.Attribute{
		{Key: AttrUnit, Val: "1"},
		{Key: "class", Val: class},
		{Key: AttrOriginal, Val: surface},
		{Key: AttrTranslation, Val: translation},
	}
	if romanization != "" {
		attrs = append(attrs, html.Attribute{Key: AttrRomanization, Val: romanization})
	}

	shown := surface
	if rw.mode == ModeLearn {
		shown = display
		if rw.lang != "" {
			attrs = append(attrs, html.Attribute{Key: "lang", Val: ToHTMLLang(rw.lang)})
			if IsRTL(rw.lang) {
				attrs = append(attrs, html.Attribute{Key: "dir", Val: "rtl"})
			}
		}
	}

	unit := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr:     attrs,
	}
	unit.AppendChild(textNode(shown))
	return unit
}

func textNode(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

func joinRomanizations(spans []Span, lookup func(string) (Entry, bool)) string {
	var parts []string
	for _, s := range spans {
		if entry, ok := lookup(s.Text); ok && entry.Romanization != "" {
			parts = append(parts, entry.Romanization)
		}
	}
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
