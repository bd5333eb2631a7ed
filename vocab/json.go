package vocab

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/wordseed/wordseed"
)

// vocabularyFile is the on-disk JSON shape for vocabulary exports:
// either a flat {"word": "translation"} object or a list of full entries.
type vocabularyFile struct {
	Words []jsonEntry `json:"words"`
}

type jsonEntry struct {
	Word         string `json:"word"`
	Translation  string `json:"translation"`
	Romanization string `json:"romanization,omitempty"`
}

// LoadVocabularyJSON reads a vocabulary file. Both the wrapped
// {"words": [...]} form and a flat {"word": "translation"} object are
// accepted.
func LoadVocabularyJSON(path string) (wordseed.Vocabulary, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, &wordseed.VocabError{Message: "reading vocabulary file", Cause: err}
	}
	return ParseVocabularyJSON(data)
}

// ParseVocabularyJSON parses vocabulary JSON in either accepted form.
func ParseVocabularyJSON(data []byte) (wordseed.Vocabulary, error) {
	vocab := make(wordseed.Vocabulary)

	var wrapped vocabularyFile
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Words) > 0 {
		for _, e := range wrapped.Words {
			addEntry(vocab, e.Word, e.Translation, e.Romanization)
		}
		return vocab, nil
	}

	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, &wordseed.VocabError{Message: "parsing vocabulary JSON", Cause: err}
	}
	for word, translation := range flat {
		addEntry(vocab, word, translation, "")
	}
	return vocab, nil
}

func addEntry(vocab wordseed.Vocabulary, word, translation, romanization string) {
	surface := strings.TrimSpace(word)
	key := strings.ToLower(surface)
	if key == "" || translation == "" {
		return
	}
	vocab[key] = Entry{
		Surface:      surface,
		Translation:  translation,
		Romanization: romanization,
	}
}

// LoadCompoundsJSON reads the static compound dictionary: a flat JSON
// object mapping concatenated per-word translations to the compound
// translation. Loaded once at startup, never mutated afterwards.
func LoadCompoundsJSON(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, &wordseed.VocabError{Message: "reading compound file", Cause: err}
	}

	var compounds map[string]string
	if err := json.Unmarshal(data, &compounds); err != nil {
		return nil, &wordseed.VocabError{Message: "parsing compound JSON", Cause: err}
	}
	return compounds, nil
}
