package wordseed

import "context"

// Translator is the strategy interface for "smart translation" backends:
// collaborators that take a raw text block plus the learner's vocabulary
// and return mixed text with known words already swapped per the mode.
//
// The core engine never awaits a Translator; implementations live in the
// provider package and are selected by configuration.
type Translator interface {
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}

// TranslateRequest contains the parameters for a smart-translation request.
type TranslateRequest struct {
	Text       string     // Raw source text block
	Vocabulary Vocabulary // Current known-word snapshot
	Mode       Mode       // Replacement policy to apply
	TargetLang string     // Language of the vocabulary's translations
}
