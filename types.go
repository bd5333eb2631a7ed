package wordseed

// Mode selects the replacement policy applied to matched vocabulary.
type Mode string

const (
	// ModeLearn replaces known source words with their translations, for
	// building recognition of the target language.
	ModeLearn Mode = "learn"
	// ModePractice leaves known words in the source text but highlights
	// them, for reading practice.
	ModePractice Mode = "practice"
)

// Entry is one known-word mapping in the learner's vocabulary.
// The map key it is stored under is the lowercased source word or phrase.
type Entry struct {
	Surface      string            // Original surface form as the learner saved it
	Translation  string            // Translation text
	Romanization string            // Optional reading aid (pinyin, romaji, ...)
	Metadata     map[string]string // Opaque collaborator data (encounter counts, timestamps)
}

// Vocabulary is the full known-word mapping, keyed by lowercased source word.
type Vocabulary map[string]Entry

// Span is a located, resolved occurrence of a vocabulary key within one
// block of text. Offsets are byte offsets; End is exclusive.
//
// Spans produced by Scan for one block are sorted by Start and are
// mutually non-overlapping.
type Span struct {
	Start int
	End   int
	Text  string // Matched surface text, original casing
}

// Stats summarizes one rewriter pass.
type Stats struct {
	TextNodes int // Text nodes visited
	Rewritten int // Text nodes that received at least one replacement
	Units     int // Generated annotation units (single words and compounds)
	Compounds int // Units that merged multiple adjacent matches
	Skipped   int // Nodes skipped because they were already processed
}

// Add accumulates another pass's counters into s.
func (s *Stats) Add(other Stats) {
	s.TextNodes += other.TextNodes
	s.Rewritten += other.Rewritten
	s.Units += other.Units
	s.Compounds += other.Compounds
	s.Skipped += other.Skipped
}

// Attribute names carried by generated annotation units. Collaborators
// (hover tooltips, read-aloud) read these; the engine only writes them.
const (
	// AttrUnit marks an element as engine-generated output. Subtrees
	// carrying it are never rescanned.
	AttrUnit = "data-ws-unit"
	// AttrOriginal holds the matched surface text.
	AttrOriginal = "data-ws-original"
	// AttrTranslation holds the translation text.
	AttrTranslation = "data-ws-translation"
	// AttrRomanization holds the optional reading aid.
	AttrRomanization = "data-ws-romanization"
	// AttrSkip opts an element subtree out of rewriting entirely.
	AttrSkip = "data-ws-skip"
)

// CSS classes assigned to generated units.
const (
	ClassWord     = "wordseed-word"
	ClassCompound = "wordseed-compound"
)

// SkippedTags contains HTML tags whose text content is never rewritten.
var SkippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
	"input":    true,
	"button":   true,
	"select":   true,
	"option":   true,
}
