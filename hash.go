package wordseed

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// Signature computes a deterministic signature of a vocabulary key set.
// The same key set yields the same signature regardless of map iteration
// or insertion order; this gates matcher cache reuse in Index.
func Signature(vocab Vocabulary) string {
	if len(vocab) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vocab))
	for k := range vocab {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// RenderKey generates a cache key for a rendered text block from the block
// hash, the vocabulary signature and the replacement mode.
func RenderKey(textHash, signature string, mode Mode) string {
	return textHash + ":" + signature + ":" + string(mode)
}
