package wordseed

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func newTestRewriter(t *testing.T, vocab Vocabulary, opts ...RewriterOption) *Rewriter {
	t.Helper()
	rw := NewRewriter(NewIndex(), opts...)
	rw.SetVocabulary(vocab)
	return rw
}

func parseFragment(t *testing.T, content string) (*goquery.Document, *html.Node) {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}
	if len(doc.Selection.Nodes) == 0 {
		t.Fatal("No nodes parsed")
	}
	return doc, doc.Selection.Nodes[0]
}

func TestRewriter_HelloWorld(t *testing.T) {
	vocab := Vocabulary{
		"hello": {Surface: "hello", Translation: "你好", Romanization: "nǐ hǎo"},
		"world": {Surface: "world", Translation: "世界", Romanization: "shì jiè"},
	}
	rw := newTestRewriter(t, vocab)

	out, stats, err := rw.RewriteHTML("<p>Hello, world!</p>")
	if err != nil {
		t.Fatalf("RewriteHTML failed: %v", err)
	}
	if stats.Units != 2 {
		t.Errorf("Expected 2 units, got %d", stats.Units)
	}
	if stats.Rewritten != 1 {
		t.Errorf("Expected 1 rewritten text node, got %d", stats.Rewritten)
	}

	if !strings.Contains(out, "你好") || !strings.Contains(out, "世界") {
		t.Errorf("Expected translations in output, got %q", out)
	}
	// Punctuation and spacing between matches survive verbatim.
	if !strings.Contains(out, "</span>, <span") {
		t.Errorf("Expected ', ' preserved between units, got %q", out)
	}
	if !strings.Contains(out, "!") {
		t.Errorf("Expected trailing '!' preserved, got %q", out)
	}
	if !strings.Contains(out, AttrOriginal+`="Hello"`) {
		t.Errorf("Expected original surface attribute, got %q", out)
	}
	if !strings.Contains(out, AttrRomanization+`="nǐ hǎo"`) {
		t.Errorf("Expected romanization attribute, got %q", out)
	}
}

func TestRewriter_NoMatchesLeavesTextIntact(t *testing.T) {
	rw := newTestRewriter(t, Vocabulary{
		"hello": {Surface: "hello", Translation: "你好"},
	})

	doc, root := parseFragment(t, "<p>Nothing to see here.</p>")
	stats := rw.ProcessSubtree(root)
	if stats.Units != 0 {
		t.Errorf("Expected 0 units, got %d", stats.Units)
	}
	if stats.Rewritten != 0 {
		t.Errorf("Expected 0 rewritten nodes, got %d", stats.Rewritten)
	}

	text := doc.Find("p").Text()
	if text != "Nothing to see here." {
		t.Errorf("Text changed: %q", text)
	}
}

func TestRewriter_SecondPassIsNoop(t *testing.T) {
	rw := newTestRewriter(t, Vocabulary{
		"hello": {Surface: "hello", Translation: "你好"},
	})

	_, root := parseFragment(t, "<p>hello there, hello again</p>")

	first := rw.ProcessSubtree(root)
	if first.Units != 2 {
		t.Fatalf("Expected 2 units on first pass, got %d", first.Units)
	}

	second := rw.ProcessSubtree(root)
	if second.Units != 0 {
		t.Errorf("Expected 0 units on second pass, got %d", second.Units)
	}
	if second.Rewritten != 0 {
		t.Errorf("Expected 0 rewritten nodes on second pass, got %d", second.Rewritten)
	}
	if second.Skipped == 0 {
		t.Error("Expected second pass to skip processed nodes")
	}
}

func TestRewriter_SkipsNonTranslatableTags(t *testing.T) {
	rw := newTestRewriter(t, Vocabulary{
		"hello": {Surface: "hello", Translation: "你好"},
	})

	content := `<div><script>hello()</script><code>hello</code><pre>hello</pre><p>hello</p></div>`
	out, stats, err := rw.RewriteHTML(content)
	if err != nil {
		t.Fatalf("RewriteHTML failed: %v", err)
	}
	if stats.Units != 1 {
		t.Errorf("Expected only the <p> to produce a unit, got %d", stats.Units)
	}
	if !strings.Contains(out, "<script>hello()</script>") {
		t.Errorf("Script content changed: %q", out)
	}
	if !strings.Contains(out, "<code>hello</code>") {
		t.Errorf("Code content changed: %q", out)
	}
}

func TestRewriter_SkipsOptedOutSubtree(t *testing.T) {
	rw := newTestRewriter(t, Vocabulary{
		"hello": {Surface: "hello", Translation: "你好"},
	})

	content := `<div><p ` + AttrSkip + `="1">hello</p><p>hello</p></div>`
	out, stats, err := rw.RewriteHTML(content)
	if err != nil {
		t.Fatalf("RewriteHTML failed: %v", err)
	}
	if stats.Units != 1 {
		t.Errorf("Expected 1 unit, got %d", stats.Units)
	}
	if !strings.Contains(out, `>hello</p>`) {
		t.Errorf("Opted-out text changed: %q", out)
	}
}

func TestRewriter_SkipsGeneratedUnits(t *testing.T) {
	rw := newTestRewriter(t, Vocabulary{
		"你好": {Surface: "你好", Translation: "hello"},
	})

	// A unit produced by an earlier pass must never be matched against
	// the reverse vocabulary direction.
	content := `<p><span ` + AttrUnit + `="1">你好</span></p>`
	out, stats, err := rw.RewriteHTML(content)
	if err != nil {
		t.Fatalf("RewriteHTML failed: %v", err)
	}
	if stats.Units != 0 {
		t.Errorf("Expected 0 units, got %d", stats.Units)
	}
	if !strings.Contains(out, ">你好</span>") {
		t.Errorf("Generated unit changed: %q", out)
	}
}

func TestRewriter_PracticeModeKeepsSurface(t *testing.T) {
	rw := newTestRewriter(t, Vocabulary{
		"hello": {Surface: "hello", Translation: "你好"},
	}, WithMode(ModePractice))

	out, stats, err := rw.RewriteHTML("<p>Hello!</p>")
	if err != nil {
		t.Fatalf("RewriteHTML failed: %v", err)
	}
	if stats.Units != 1 {
		t.Fatalf("Expected 1 unit, got %d", stats.Units)
	}
	if !strings.Contains(out, ">Hello</span>") {
		t.Errorf("Expected surface kept visible, got %q", out)
	}
	if !strings.Contains(out, AttrTranslation+`="你好"`) {
		t.Errorf("Expected translation carried in attribute, got %q", out)
	}
}

func TestRewriter_LearnModeLangAttributes(t *testing.T) {
	rw := newTestRewriter(t, Vocabulary{
		"hello": {Surface: "hello", Translation: "مرحبا"},
	}, WithLang("ar"))

	out, _, err := rw.RewriteHTML("<p>hello</p>")
	if err != nil {
		t.Fatalf("RewriteHTML failed: %v", err)
	}
	if !strings.Contains(out, `lang="ar"`) {
		t.Errorf("Expected lang attribute, got %q", out)
	}
	if !strings.Contains(out, `dir="rtl"`) {
		t.Errorf("Expected dir attribute for RTL language, got %q", out)
	}
}

func TestRewriter_CompoundMerge(t *testing.T) {
	vocab := Vocabulary{
		"i":  {Surface: "I", Translation: "我", Romanization: "wǒ"},
		"of": {Surface: "of", Translation: "的", Romanization: "de"},
	}
	resolver := NewCompoundResolver(map[string]string{"我的": "my"})
	rw := newTestRewriter(t, vocab, WithCompounds(resolver))

	out, stats, err := rw.RewriteHTML("<p>I of course</p>")
	if err != nil {
		t.Fatalf("RewriteHTML failed: %v", err)
	}
	if stats.Units != 1 {
		t.Errorf("Expected 1 merged unit, got %d", stats.Units)
	}
	if stats.Compounds != 1 {
		t.Errorf("Expected 1 compound, got %d", stats.Compounds)
	}
	if !strings.Contains(out, ">我的</span>") {
		t.Errorf("Expected concatenated display, got %q", out)
	}
	if !strings.Contains(out, AttrTranslation+`="my"`) {
		t.Errorf("Expected compound translation attribute, got %q", out)
	}
	if !strings.Contains(out, AttrOriginal+`="I of"`) {
		t.Errorf("Expected merged surface attribute, got %q", out)
	}
	if !strings.Contains(out, `class="`+ClassCompound+`"`) {
		t.Errorf("Expected compound class, got %q", out)
	}
	if !strings.Contains(out, AttrRomanization+`="wǒ de"`) {
		t.Errorf("Expected joined romanization, got %q", out)
	}
}

func TestRewriter_CompoundSkipsSeparatedWords(t *testing.T) {
	vocab := Vocabulary{
		"i":  {Surface: "I", Translation: "我"},
		"of": {Surface: "of", Translation: "的"},
	}
	resolver := NewCompoundResolver(map[string]string{"我的": "my"})
	rw := newTestRewriter(t, vocab, WithCompounds(resolver))

	out, stats, err := rw.RewriteHTML("<p>I think highly of you</p>")
	if err != nil {
		t.Fatalf("RewriteHTML failed: %v", err)
	}
	if stats.Compounds != 0 {
		t.Errorf("Expected no compound across intervening words, got %d", stats.Compounds)
	}
	if stats.Units != 2 {
		t.Errorf("Expected 2 single-word units, got %d", stats.Units)
	}
	// The unmatched words between the two vocabulary hits stay visible.
	if !strings.Contains(out, " think highly ") {
		t.Errorf("Expected intervening text to survive, got %q", out)
	}
	if strings.Contains(out, ">我的</span>") {
		t.Errorf("Expected no merged display, got %q", out)
	}
}

func TestRewriter_VocabularyChangeRescans(t *testing.T) {
	rw := newTestRewriter(t, Vocabulary{
		"hello": {Surface: "hello", Translation: "你好"},
	})

	_, root := parseFragment(t, "<p>hello world</p>")
	first := rw.ProcessSubtree(root)
	if first.Units != 1 {
		t.Fatalf("Expected 1 unit, got %d", first.Units)
	}

	// Adding a key clears processed markers; the remaining plain text is
	// rescanned and the new word found.
	rw.SetVocabulary(Vocabulary{
		"hello": {Surface: "hello", Translation: "你好"},
		"world": {Surface: "world", Translation: "世界"},
	})

	second := rw.ProcessSubtree(root)
	if second.Units != 1 {
		t.Errorf("Expected 1 new unit after vocabulary change, got %d", second.Units)
	}
}

func TestRewriter_DetachedNodeSkipped(t *testing.T) {
	rw := newTestRewriter(t, Vocabulary{
		"hello": {Surface: "hello", Translation: "你好"},
	})

	var stats Stats
	detached := &html.Node{Type: html.TextNode, Data: "hello"}
	rw.mu.Lock()
	rw.processTextNode(detached, &stats)
	rw.mu.Unlock()

	if stats.Rewritten != 0 {
		t.Errorf("Expected no rewrite of a detached node, got %d", stats.Rewritten)
	}
	if stats.Units != 0 {
		t.Errorf("Expected no units, got %d", stats.Units)
	}
}

func TestRewriter_ResetAllowsReprocessing(t *testing.T) {
	rw := newTestRewriter(t, Vocabulary{
		"hello": {Surface: "hello", Translation: "你好"},
	})

	_, root := parseFragment(t, "<p>nothing matched here</p>")
	rw.ProcessSubtree(root)

	second := rw.ProcessSubtree(root)
	if second.Skipped == 0 {
		t.Fatal("Expected processed marker to hold before Reset")
	}

	rw.Reset()
	third := rw.ProcessSubtree(root)
	if third.Skipped != 0 {
		t.Errorf("Expected no skips after Reset, got %d", third.Skipped)
	}
	if third.TextNodes != 1 {
		t.Errorf("Expected the node rescanned after Reset, got %d", third.TextNodes)
	}
}

func TestRewriter_WhitespaceOnlyNodesIgnored(t *testing.T) {
	rw := newTestRewriter(t, Vocabulary{
		"hello": {Surface: "hello", Translation: "你好"},
	})

	_, root := parseFragment(t, "<div>\n  <p>hello</p>\n</div>")
	stats := rw.ProcessSubtree(root)
	if stats.TextNodes != 1 {
		t.Errorf("Expected only the non-blank node counted, got %d", stats.TextNodes)
	}
}

func TestRewriter_InvalidHTMLStillParses(t *testing.T) {
	rw := newTestRewriter(t, Vocabulary{
		"hello": {Surface: "hello", Translation: "你好"},
	})

	// html.Parse repairs malformed markup rather than failing.
	out, _, err := rw.RewriteHTML("<p>hello<div>world")
	if err != nil {
		t.Fatalf("RewriteHTML failed: %v", err)
	}
	if !strings.Contains(out, "你好") {
		t.Errorf("Expected rewrite despite malformed input, got %q", out)
	}
}
