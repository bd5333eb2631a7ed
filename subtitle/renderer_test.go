package subtitle

import (
	"context"
	"testing"
	"time"

	"github.com/wordseed/wordseed"
	"github.com/wordseed/wordseed/cache"
)

func newTestRenderer(t *testing.T, opts ...RendererOption) *Renderer {
	t.Helper()
	r := NewRenderer(wordseed.NewIndex(), opts...)
	r.SetVocabulary(wordseed.Vocabulary{
		"hello": {Surface: "hello", Translation: "你好", Romanization: "nǐ hǎo"},
		"world": {Surface: "world", Translation: "世界"},
	})
	return r
}

func TestRenderer_LearnMode(t *testing.T) {
	r := newTestRenderer(t)

	out := r.RenderText("Hello, world!")
	if out != "你好, 世界!" {
		t.Errorf("Expected '你好, 世界!', got %q", out)
	}
}

func TestRenderer_PracticeMode(t *testing.T) {
	r := newTestRenderer(t, WithMode(wordseed.ModePractice))

	out := r.RenderText("Hello there")
	if out != "«Hello» there" {
		t.Errorf("Expected '«Hello» there', got %q", out)
	}
}

func TestRenderer_CustomDecorator(t *testing.T) {
	r := newTestRenderer(t, WithDecorator(func(surface, translation, romanization string, compound bool) string {
		return surface + " (" + translation + ")"
	}))

	out := r.RenderText("hello")
	if out != "hello (你好)" {
		t.Errorf("Expected annotated form, got %q", out)
	}
}

func TestRenderer_NoMatches(t *testing.T) {
	r := newTestRenderer(t)

	in := "nothing known here"
	if out := r.RenderText(in); out != in {
		t.Errorf("Expected text unchanged, got %q", out)
	}
	if out := r.RenderText(""); out != "" {
		t.Errorf("Expected empty text unchanged, got %q", out)
	}
}

func TestRenderer_MultilineCue(t *testing.T) {
	r := newTestRenderer(t)

	out := r.RenderText("hello\nworld")
	if out != "你好\n世界" {
		t.Errorf("Expected line break preserved, got %q", out)
	}
}

func TestRenderer_Compound(t *testing.T) {
	r := NewRenderer(wordseed.NewIndex(),
		WithCompounds(wordseed.NewCompoundResolver(map[string]string{"我的": "my"})))
	r.SetVocabulary(wordseed.Vocabulary{
		"i":  {Surface: "I", Translation: "我"},
		"of": {Surface: "of", Translation: "的"},
	})

	out := r.RenderText("I of course")
	if out != "我的 course" {
		t.Errorf("Expected merged compound, got %q", out)
	}
}

func TestRenderer_CacheHit(t *testing.T) {
	mem := cache.NewMemory(3600)
	r := newTestRenderer(t, WithCache(mem))

	first := r.RenderText("hello world")
	if mem.Len() != 1 {
		t.Fatalf("Expected 1 cached entry, got %d", mem.Len())
	}

	second := r.RenderText("hello world")
	if first != second {
		t.Errorf("Expected identical cached result, got %q vs %q", first, second)
	}
}

func TestRenderer_CacheKeyedOnVocabulary(t *testing.T) {
	mem := cache.NewMemory(3600)
	r := newTestRenderer(t, WithCache(mem))

	r.RenderText("hello world")

	// Growing the vocabulary changes the signature, so the same text
	// renders fresh instead of serving the stale entry.
	r.SetVocabulary(wordseed.Vocabulary{
		"hello": {Surface: "hello", Translation: "你好"},
		"world": {Surface: "world", Translation: "世界"},
		"there": {Surface: "there", Translation: "那里"},
	})
	r.RenderText("hello world")

	if mem.Len() != 2 {
		t.Errorf("Expected separate entries per signature, got %d", mem.Len())
	}
}

func TestRenderer_RenderCue(t *testing.T) {
	r := newTestRenderer(t)

	in := Cue{Index: 1, Start: time.Second, End: 2 * time.Second, Text: "hello"}
	out := r.RenderCue(in)
	if out.Text != "你好" {
		t.Errorf("Expected rendered text, got %q", out.Text)
	}
	if out.Start != in.Start || out.End != in.End || out.Index != in.Index {
		t.Error("Expected timing and index preserved")
	}
}

func TestRenderer_RenderAll(t *testing.T) {
	r := newTestRenderer(t, WithParallelism(2))

	cues := []Cue{
		{Index: 1, Text: "hello"},
		{Index: 2, Text: "no match"},
		{Index: 3, Text: "world"},
	}

	out, err := r.RenderAll(context.Background(), cues)
	if err != nil {
		t.Fatalf("RenderAll failed: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("Expected 3 cues, got %d", len(out))
	}
	// Order preserved regardless of scheduling.
	if out[0].Text != "你好" || out[1].Text != "no match" || out[2].Text != "世界" {
		t.Errorf("Unexpected output: %+v", out)
	}
}

func TestRenderer_RenderAll_CancelledContext(t *testing.T) {
	r := newTestRenderer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cues := make([]Cue, 50)
	for i := range cues {
		cues[i] = Cue{Index: i + 1, Text: "hello"}
	}

	if _, err := r.RenderAll(ctx, cues); err == nil {
		t.Error("Expected error from cancelled context")
	}
}
