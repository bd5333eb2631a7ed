// Package subtitle applies the vocabulary overlay to subtitle streams.
//
// Subtitles arrive as a sequence of discrete text blocks (one per caption
// cue) rather than a live document tree; the engine's scanning and
// replacement rules apply identically, only the traversal layer differs.
// Cue text repeats heavily across a stream, so renderings are cached per
// (text, vocabulary signature, mode).
package subtitle

import (
	"context"
	"time"
)

// Cue is one caption cue.
type Cue struct {
	Index int           // Position in the stream, starting at 1
	Start time.Duration // Display start, relative to stream start
	End   time.Duration // Display end
	Text  string        // Cue payload, may span multiple lines
}

// Source supplies a sequence of cues.
type Source interface {
	// Cues returns the stream's cues in display order.
	Cues(ctx context.Context) ([]Cue, error)
}

// SliceSource is a Source over an in-memory cue list.
type SliceSource []Cue

// Cues returns the slice as-is.
func (s SliceSource) Cues(ctx context.Context) ([]Cue, error) {
	return s, nil
}

// Verify SliceSource implements Source
var _ Source = (SliceSource)(nil)
