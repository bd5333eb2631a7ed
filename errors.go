package wordseed

import "fmt"

// IndexError indicates a matcher compilation failure for one vocabulary chunk.
type IndexError struct {
	Message string
	Cause   error
	Chunk   int // Index of the chunk that failed to compile
}

func (e *IndexError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("index error (chunk %d): %s: %v", e.Chunk, e.Message, e.Cause)
	}
	return fmt.Sprintf("index error (chunk %d): %s", e.Chunk, e.Message)
}

func (e *IndexError) Unwrap() error {
	return e.Cause
}

// RewriteError indicates a document processing failure (parse or serialize).
type RewriteError struct {
	Message string
	Cause   error
}

func (e *RewriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rewrite error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rewrite error: %s", e.Message)
}

func (e *RewriteError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a translation provider failure (API error, rate
// limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// VocabError indicates a vocabulary source failure (load, parse, storage).
type VocabError struct {
	Message string
	Cause   error
}

func (e *VocabError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vocab error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("vocab error: %s", e.Message)
}

func (e *VocabError) Unwrap() error {
	return e.Cause
}
