// Package vocab provides vocabulary sources for the overlay engine.
//
// A Source supplies the learner's known-word snapshot on demand; the
// engine treats it as read-only and re-pulls it when told the vocabulary
// changed. Implementations cover an in-memory source for tests and
// short-lived contexts and a SQLite-backed store for persistence.
package vocab

import (
	"context"
	"strings"
	"sync"

	"github.com/wordseed/wordseed"
)

// Entry is an alias to the engine's vocabulary entry type.
type Entry = wordseed.Entry

// Source supplies the current vocabulary snapshot.
type Source interface {
	// Snapshot returns the full known-word mapping, keyed by lowercased
	// source word. The returned map must not be mutated by the caller.
	Snapshot(ctx context.Context) (wordseed.Vocabulary, error)
}

// Memory is a mutable, thread-safe in-memory vocabulary source.
type Memory struct {
	mu      sync.RWMutex
	entries wordseed.Vocabulary
}

// NewMemory creates an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{entries: make(wordseed.Vocabulary)}
}

// Snapshot returns a copy of the current mapping.
func (m *Memory) Snapshot(ctx context.Context) (wordseed.Vocabulary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make(wordseed.Vocabulary, len(m.entries))
	for k, v := range m.entries {
		snapshot[k] = v
	}
	return snapshot, nil
}

// Add saves or updates an entry. The key is derived by lowercasing the
// entry's surface form.
func (m *Memory) Add(entry Entry) {
	key := strings.ToLower(strings.TrimSpace(entry.Surface))
	if key == "" {
		return
	}
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
}

// Remove deletes the entry for the given source word.
func (m *Memory) Remove(word string) {
	m.mu.Lock()
	delete(m.entries, strings.ToLower(strings.TrimSpace(word)))
	m.mu.Unlock()
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Verify Memory implements Source
var _ Source = (*Memory)(nil)
