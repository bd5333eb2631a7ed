// Package cache provides rendered-block caching implementations.
//
// Rendering a text block (a subtitle cue, a paragraph) is deterministic
// given the block, the vocabulary signature and the mode, so results are
// cached under wordseed.RenderKey and survive until the vocabulary changes.
package cache

// RenderCache is the interface for rendered-block caching.
type RenderCache interface {
	// Get retrieves a cached rendering. Returns empty string and false if
	// not found or expired.
	Get(key string) (string, bool)

	// Set stores a rendering in the cache.
	Set(key string, value string) error
}
