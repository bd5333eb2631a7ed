package subtitle

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wordseed/wordseed"
	"github.com/wordseed/wordseed/cache"
)

// Decorator renders one annotation unit as cue text. Cue overlays cannot
// host interactive spans, so the unit is flattened to a string.
type Decorator func(surface, translation, romanization string, compound bool) string

// LearnDecorator swaps the matched words for their translations.
func LearnDecorator(surface, translation, romanization string, compound bool) string {
	return translation
}

// PracticeDecorator keeps the original words, marked for highlighting.
func PracticeDecorator(surface, translation, romanization string, compound bool) string {
	return "«" + surface + "»"
}

// Renderer applies the vocabulary overlay to cue text. It shares the
// engine's scanning and compound rules with the DOM rewriter but emits
// plain text. Safe for concurrent use.
type Renderer struct {
	index     *wordseed.Index
	scanner   *wordseed.Scanner
	compounds *wordseed.CompoundResolver
	vocab     wordseed.Vocabulary
	mode      wordseed.Mode
	decorate  Decorator
	cache     cache.RenderCache
	parallel  int
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithMode sets the replacement policy (default learn).
func WithMode(mode wordseed.Mode) RendererOption {
	return func(r *Renderer) {
		r.mode = mode
		if r.decorate == nil {
			r.decorate = decoratorFor(mode)
		}
	}
}

// WithCompounds sets the compound resolver.
func WithCompounds(cr *wordseed.CompoundResolver) RendererOption {
	return func(r *Renderer) {
		r.compounds = cr
	}
}

// WithDecorator overrides the per-unit rendering.
func WithDecorator(d Decorator) RendererOption {
	return func(r *Renderer) {
		r.decorate = d
	}
}

// WithCache sets the rendered-block cache.
func WithCache(c cache.RenderCache) RendererOption {
	return func(r *Renderer) {
		r.cache = c
	}
}

// WithParallelism bounds concurrent cue rendering in RenderAll
// (default 4).
func WithParallelism(n int) RendererOption {
	return func(r *Renderer) {
		if n > 0 {
			r.parallel = n
		}
	}
}

// NewRenderer creates a renderer over the given index.
func NewRenderer(index *wordseed.Index, opts ...RendererOption) *Renderer {
	r := &Renderer{
		index:     index,
		scanner:   wordseed.NewScanner(index, wordseed.DefaultScanCacheSize),
		compounds: wordseed.NewCompoundResolver(nil),
		mode:      wordseed.ModeLearn,
		parallel:  4,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.decorate == nil {
		r.decorate = decoratorFor(r.mode)
	}
	return r
}

func decoratorFor(mode wordseed.Mode) Decorator {
	if mode == wordseed.ModePractice {
		return PracticeDecorator
	}
	return LearnDecorator
}

// SetVocabulary installs a vocabulary snapshot, rebuilding the shared
// index if the key set changed.
func (r *Renderer) SetVocabulary(vocab wordseed.Vocabulary) {
	r.vocab = vocab
	r.index.RebuildIfNeeded(vocab)
}

// RenderText applies the overlay to one text block. Repeated blocks are
// served from the render cache while the vocabulary signature holds.
func (r *Renderer) RenderText(text string) string {
	if text == "" {
		return text
	}

	var key string
	if r.cache != nil {
		key = wordseed.RenderKey(wordseed.HashText(text), r.index.Sig(), r.mode)
		if rendered, ok := r.cache.Get(key); ok {
			return rendered
		}
	}

	rendered := r.renderUncached(text)

	if r.cache != nil {
		_ = r.cache.Set(key, rendered) // Ignore cache set errors
	}
	return rendered
}

func (r *Renderer) renderUncached(text string) string {
	spans := r.scanner.Scan(text)
	if len(spans) == 0 {
		return text
	}

	lookup := func(surface string) (wordseed.Entry, bool) {
		entry, ok := r.vocab[strings.ToLower(surface)]
		return entry, ok
	}

	var b strings.Builder
	cursor := 0
	for i := 0; i < len(spans); {
		var (
			span         wordseed.Span
			translation  string
			romanization string
			isCompound   bool
			consumed     = 1
		)

		if c, ok := r.compounds.Resolve(text, spans[i:], lookup); ok {
			span = c.Span
			// Cue text is flat, so the merged unit shows the concatenated
			// member translations, same as the DOM rewriter's learn mode.
			translation = c.Display
			isCompound = true
			consumed = c.Consumed
		} else {
			span = spans[i]
			entry, known := lookup(span.Text)
			if !known {
				i++
				continue
			}
			translation = entry.Translation
			romanization = entry.Romanization
		}

		b.WriteString(text[cursor:span.Start])
		b.WriteString(r.decorate(span.Text, translation, romanization, isCompound))
		cursor = span.End
		i += consumed
	}
	b.WriteString(text[cursor:])
	return b.String()
}

// RenderCue returns the cue with its text overlaid.
func (r *Renderer) RenderCue(cue Cue) Cue {
	cue.Text = r.RenderText(cue.Text)
	return cue
}

// RenderAll overlays a whole cue stream, rendering cues concurrently while
// preserving order. Rendering one cue never depends on another, so this is
// safe for warm-up passes over full caption files.
func (r *Renderer) RenderAll(ctx context.Context, cues []Cue) ([]Cue, error) {
	out := make([]Cue, len(cues))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)

	for i, cue := range cues {
		i, cue := i, cue
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			out[i] = r.RenderCue(cue)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
