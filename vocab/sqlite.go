package vocab

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wordseed/wordseed"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS words (
	word TEXT PRIMARY KEY,
	surface TEXT NOT NULL,
	translation TEXT NOT NULL,
	romanization TEXT NOT NULL DEFAULT '',
	encounters INTEGER NOT NULL DEFAULT 0,
	added_at TIMESTAMP NOT NULL,
	last_seen_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_words_last_seen ON words(last_seen_at);
`

// Store is a SQLite-backed vocabulary store. The word column holds the
// lowercased lookup key; surface keeps the form the learner saved.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and initializes) a vocabulary database at path.
// Use ":memory:" for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &wordseed.VocabError{Message: "opening database", Cause: err}
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing database connection, running migrations.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return &wordseed.VocabError{Message: "running migration", Cause: err}
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert saves or updates an entry keyed by the lowercased surface form.
func (s *Store) Upsert(ctx context.Context, entry Entry) error {
	key := strings.ToLower(strings.TrimSpace(entry.Surface))
	if key == "" {
		return &wordseed.VocabError{Message: "entry surface must be non-empty"}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO words (word, surface, translation, romanization, added_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(word)
		 DO UPDATE SET
		   surface = excluded.surface,
		   translation = excluded.translation,
		   romanization = COALESCE(NULLIF(excluded.romanization, ''), words.romanization)`,
		key, entry.Surface, entry.Translation, entry.Romanization, time.Now().UTC())
	if err != nil {
		return &wordseed.VocabError{Message: "upserting word", Cause: err}
	}
	return nil
}

// Delete removes the entry for the given source word.
func (s *Store) Delete(ctx context.Context, word string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM words WHERE word = ?`,
		strings.ToLower(strings.TrimSpace(word)))
	if err != nil {
		return &wordseed.VocabError{Message: "deleting word", Cause: err}
	}
	return nil
}

// Touch records an encounter with a known word (the learner saw it on a
// page). Encounter bookkeeping is opaque to the engine.
func (s *Store) Touch(ctx context.Context, word string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE words SET encounters = encounters + 1, last_seen_at = ? WHERE word = ?`,
		time.Now().UTC(), strings.ToLower(strings.TrimSpace(word)))
	if err != nil {
		return &wordseed.VocabError{Message: "touching word", Cause: err}
	}
	return nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&n); err != nil {
		return 0, &wordseed.VocabError{Message: "counting words", Cause: err}
	}
	return n, nil
}

// Snapshot returns the full known-word mapping.
func (s *Store) Snapshot(ctx context.Context) (wordseed.Vocabulary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, surface, translation, romanization FROM words`)
	if err != nil {
		return nil, &wordseed.VocabError{Message: "querying words", Cause: err}
	}
	defer rows.Close()

	snapshot := make(wordseed.Vocabulary)
	for rows.Next() {
		var key string
		var entry Entry
		if err := rows.Scan(&key, &entry.Surface, &entry.Translation, &entry.Romanization); err != nil {
			return nil, &wordseed.VocabError{Message: "scanning word row", Cause: err}
		}
		snapshot[key] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, &wordseed.VocabError{Message: "iterating word rows", Cause: err}
	}
	return snapshot, nil
}

// Verify Store implements Source
var _ Source = (*Store)(nil)
