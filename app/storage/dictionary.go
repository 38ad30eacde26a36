package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/umputun/spamicity/app/storage/engine"
	"github.com/umputun/spamicity/lib/spamicity"
)

// Dictionary is a storage for stop words excluded from terms
type Dictionary struct {
	*engine.SQL
	engine.RWLocker
}

// DictionaryEntry is a single stop word
type DictionaryEntry struct {
	ID   int64  `db:"id" json:"id"`
	Word string `db:"word" json:"word"`
}

// dictionary-related command constants
const (
	CmdCreateDictionaryTable engine.DBCmd = iota + 200
	CmdCreateDictionaryIndexes
	CmdAddDictionaryWord
)

var dictionaryQueries = engine.NewQueryMap().
	Add(CmdCreateDictionaryTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS dictionary (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            gid TEXT NOT NULL DEFAULT '',
            timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
            word TEXT NOT NULL,
            UNIQUE(gid, word)
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS dictionary (
            id SERIAL PRIMARY KEY,
            gid TEXT NOT NULL DEFAULT '',
            timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            word TEXT NOT NULL,
            UNIQUE(gid, word)
        )`,
	}).
	AddSame(CmdCreateDictionaryIndexes, `CREATE INDEX IF NOT EXISTS idx_dictionary_gid ON dictionary(gid)`).
	Add(CmdAddDictionaryWord, engine.Query{
		Sqlite:   `INSERT OR IGNORE INTO dictionary (gid, word) VALUES (?, ?)`,
		Postgres: `INSERT INTO dictionary (gid, word) VALUES ($1, $2) ON CONFLICT (gid, word) DO NOTHING`,
	})

// NewDictionary creates a new Dictionary storage
func NewDictionary(ctx context.Context, db *engine.SQL) (*Dictionary, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	cfg := engine.TableConfig{
		Name:          "dictionary",
		CreateTable:   CmdCreateDictionaryTable,
		CreateIndexes: CmdCreateDictionaryIndexes,
		QueriesMap:    dictionaryQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init dictionary storage: %w", err)
	}
	return &Dictionary{SQL: db, RWLocker: db.MakeLock()}, nil
}

// Add adds stop words, duplicates are ignored
func (d *Dictionary) Add(ctx context.Context, words ...string) error {
	query, err := dictionaryQueries.Pick(d.Type(), CmdAddDictionaryWord)
	if err != nil {
		return fmt.Errorf("failed to get query: %w", err)
	}

	d.Lock()
	defer d.Unlock()
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, query, d.GID(), w); err != nil {
			return fmt.Errorf("failed to add word %q: %w", w, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Import parses stop words (comma-separated, several per line) and adds them.
// If withCleanup is true removes all words of the group first.
func (d *Dictionary) Import(ctx context.Context, r io.Reader, withCleanup bool) (int, error) {
	words, err := spamicity.ParseStopWords(r)
	if err != nil {
		return 0, err
	}
	if withCleanup {
		d.Lock()
		_, err = d.ExecContext(ctx, d.Adopt(`DELETE FROM dictionary WHERE gid = ?`), d.GID())
		d.Unlock()
		if err != nil {
			return 0, fmt.Errorf("failed to remove old words: %w", err)
		}
	}
	if err := d.Add(ctx, words...); err != nil {
		return 0, err
	}
	log.Printf("[DEBUG] imported %d stop words, gid=%s", len(words), d.GID())
	return len(words), nil
}

// Delete removes a word by its ID
func (d *Dictionary) Delete(ctx context.Context, id int64) error {
	d.Lock()
	defer d.Unlock()

	result, err := d.ExecContext(ctx, d.Adopt(`DELETE FROM dictionary WHERE gid = ? AND id = ?`), d.GID(), id)
	if err != nil {
		return fmt.Errorf("failed to remove word: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("word %d: %w", id, ErrNotFound)
	}
	return nil
}

// Read returns all stop words of the group in insertion order
func (d *Dictionary) Read(ctx context.Context) ([]DictionaryEntry, error) {
	d.RLock()
	defer d.RUnlock()

	res := []DictionaryEntry{}
	query := d.Adopt(`SELECT id, word FROM dictionary WHERE gid = ? ORDER BY id`)
	if err := d.SelectContext(ctx, &res, query, d.GID()); err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	return res, nil
}

// Reader returns all stop words as a reader, one word per line, suitable for spamicity.ParseStopWords
func (d *Dictionary) Reader(ctx context.Context) (io.Reader, error) {
	entries, err := d.Read(ctx)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Word)
		sb.WriteString("\n")
	}
	return strings.NewReader(sb.String()), nil
}
