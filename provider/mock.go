package provider

import (
	"context"
	"regexp"

	"github.com/wordseed/wordseed"
)

// Mock is a deterministic provider for testing: it swaps known words by
// literal word-boundary replacement, the same policy the core engine
// applies, without any remote calls.
type Mock struct {
	CallCount   int               // Number of times Translate was called
	LastRequest *TranslateRequest // Last request received
	Err         error             // When set, returned by every call
}

// NewMock creates a new mock provider.
func NewMock() *Mock {
	return &Mock{}
}

// Translate returns req.Text with every vocabulary key replaced by its
// translation (learn mode) or wrapped in guillemets (practice mode).
func (m *Mock) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	m.CallCount++
	m.LastRequest = &req

	if m.Err != nil {
		return "", m.Err
	}

	result := req.Text
	for key, entry := range req.Vocabulary {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(key) + `\b`)
		if err != nil {
			continue
		}
		replacement := entry.Translation
		if req.Mode == wordseed.ModePractice {
			replacement = "«" + entry.Surface + "»"
		}
		result = re.ReplaceAllLiteralString(result, replacement)
	}
	return result, nil
}

// Reset resets the call count and last request.
func (m *Mock) Reset() {
	m.CallCount = 0
	m.LastRequest = nil
}

// Verify Mock implements Translator
var _ Translator = (*Mock)(nil)
