// Package sqlite provides a SQLite-backed lexicon.Gazetteer for gazetteers
// too large to hold in memory.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"

	"github.com/cognicore/nerkit/pkg/nerkit/lexicon"
)

// DefaultCacheSize bounds the membership memo.
const DefaultCacheSize = 4096

type cacheKey struct {
	category lexicon.Category
	phrase   string
}

// Store is a Gazetteer over a SQLite database.
type Store struct {
	db    *sql.DB
	cache *lru.Cache[cacheKey, bool]

	mu     sync.RWMutex
	maxLen map[lexicon.Category]int
}

// Open opens (or creates) a gazetteer database with WAL mode enabled.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	cache, err := lru.New[cacheKey, bool](DefaultCacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, cache: cache}
	if err := s.loadMaxLen(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS gazetteer (
	category TEXT NOT NULL,
	phrase TEXT NOT NULL,
	ntokens INTEGER NOT NULL,
	PRIMARY KEY(category, phrase)
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *Store) loadMaxLen(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT category, MAX(ntokens) FROM gazetteer GROUP BY category`)
	if err != nil {
		return err
	}
	defer rows.Close()

	maxLen := make(map[lexicon.Category]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return err
		}
		if c, ok := lexicon.ParseCategory(name); ok {
			maxLen[c] = n
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.maxLen = maxLen
	s.mu.Unlock()
	return nil
}

// Import inserts phrases into a category. Existing phrases are kept.
func (s *Store) Import(ctx context.Context, c lexicon.Category, phrases []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO gazetteer (category, phrase, ntokens) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, p := range phrases {
		key := lexicon.Key(p)
		if key == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, c.String(), key, phraseLen(key))
		if err != nil {
			return inserted, fmt.Errorf("import %q: %w", p, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, err
	}

	s.cache.Purge()
	return inserted, s.loadMaxLen(ctx)
}

// ImportLexicon copies every phrase of an in-memory lexicon.
func (s *Store) ImportLexicon(ctx context.Context, lex *lexicon.Lexicon) (int, error) {
	total := 0
	for _, c := range lexicon.Categories {
		n, err := s.Import(ctx, c, lex.Phrases(c))
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Contains implements lexicon.Gazetteer. Lookup errors count as a miss.
//
// The Gazetteer interface carries no context, so the query runs under
// context.Background and a cancelled request does not interrupt it. Lookups
// are single-row primary key reads and most are answered by the LRU memo.
func (s *Store) Contains(c lexicon.Category, phrase string) bool {
	key := cacheKey{category: c, phrase: lexicon.Key(phrase)}
	if hit, ok := s.cache.Get(key); ok {
		return hit
	}

	var one int
	err := s.db.QueryRowContext(context.Background(),
		`SELECT 1 FROM gazetteer WHERE category = ? AND phrase = ?`,
		c.String(), key.phrase,
	).Scan(&one)
	found := err == nil

	if err == nil || err == sql.ErrNoRows {
		s.cache.Add(key, found)
	}
	return found
}

// MaxTokens implements lexicon.Gazetteer.
func (s *Store) MaxTokens(c lexicon.Category) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxLen[c]
}

// Count returns the number of phrases stored for a category.
func (s *Store) Count(ctx context.Context, c lexicon.Category) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gazetteer WHERE category = ?`, c.String()).Scan(&n)
	return n, err
}

func phraseLen(key string) int {
	n := 1
	for _, r := range key {
		if r == ' ' {
			n++
		}
	}
	return n
}
