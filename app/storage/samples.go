package storage

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log"
	"strings"

	"github.com/umputun/spamicity/app/storage/engine"
)

// Samples is a storage for training documents. It supports both ham and spam, as well as preset samples
// (imported from corpus directories) and user's samples (added via api).
type Samples struct {
	*engine.SQL
	engine.RWLocker
}

// SampleType represents the type of the sample
type SampleType string

// enum for sample types
const (
	SampleTypeHam  SampleType = "ham"
	SampleTypeSpam SampleType = "spam"
)

// SampleOrigin represents the origin of the sample
type SampleOrigin string

// enum for sample origins
const (
	SampleOriginPreset SampleOrigin = "preset"
	SampleOriginUser   SampleOrigin = "user"
	SampleOriginAny    SampleOrigin = "any"
)

// maxSampleSize limits a single imported document
const maxSampleSize = 16 * 1024 * 1024

// samples-related command constants
const (
	CmdCreateSamplesTable engine.DBCmd = iota + 100
	CmdCreateSamplesIndexes
	CmdAddSample
)

var samplesQueries = engine.NewQueryMap().
	Add(CmdCreateSamplesTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS samples (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            gid TEXT NOT NULL DEFAULT '',
            timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
            type TEXT CHECK (type IN ('ham', 'spam')),
            origin TEXT CHECK (origin IN ('preset', 'user')),
            source TEXT NOT NULL DEFAULT '',
            message TEXT NOT NULL,
            UNIQUE(gid, message)
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS samples (
            id SERIAL PRIMARY KEY,
            gid TEXT NOT NULL DEFAULT '',
            timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            type TEXT CHECK (type IN ('ham', 'spam')),
            origin TEXT CHECK (origin IN ('preset', 'user')),
            source TEXT NOT NULL DEFAULT '',
            message TEXT NOT NULL,
            message_hash TEXT GENERATED ALWAYS AS (encode(sha256(message::bytea), 'hex')) STORED,
            UNIQUE(gid, message_hash)
        )`,
	}).
	Add(CmdCreateSamplesIndexes, engine.Query{
		Sqlite: `
			CREATE INDEX IF NOT EXISTS idx_samples_gid ON samples(gid);
			CREATE INDEX IF NOT EXISTS idx_samples_lookup ON samples(gid, type, origin)`,
		Postgres: `
			CREATE INDEX IF NOT EXISTS idx_samples_gid ON samples(gid);
			CREATE INDEX IF NOT EXISTS idx_samples_lookup ON samples(gid, type, origin);
			CREATE INDEX IF NOT EXISTS idx_samples_message_hash ON samples(message_hash)`,
	}).
	Add(CmdAddSample, engine.Query{
		Sqlite: `INSERT OR REPLACE INTO samples (gid, type, origin, source, message) VALUES (?, ?, ?, ?, ?)`,
		Postgres: `INSERT INTO samples (gid, type, origin, source, message) VALUES ($1, $2, $3, $4, $5)
                  ON CONFLICT (gid, message_hash) DO UPDATE
                  SET type = EXCLUDED.type, origin = EXCLUDED.origin, source = EXCLUDED.source`,
	})

// NewSamples creates a new Samples storage
func NewSamples(ctx context.Context, db *engine.SQL) (*Samples, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	cfg := engine.TableConfig{
		Name:          "samples",
		CreateTable:   CmdCreateSamplesTable,
		CreateIndexes: CmdCreateSamplesIndexes,
		QueriesMap:    samplesQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init samples storage: %w", err)
	}
	return &Samples{SQL: db, RWLocker: db.MakeLock()}, nil
}

// Add adds a sample to the storage. A sample with the same message is replaced.
func (s *Samples) Add(ctx context.Context, t SampleType, o SampleOrigin, source, message string) error {
	log.Printf("[DEBUG] adding sample: %s, %s, %s, %q", t, o, source, shorten(message, 1024))
	if err := t.Validate(); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}
	if o == SampleOriginAny {
		return fmt.Errorf("can't add sample with origin 'any'")
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message can't be empty")
	}

	query, err := samplesQueries.Pick(s.Type(), CmdAddSample)
	if err != nil {
		return fmt.Errorf("failed to get query: %w", err)
	}

	s.Lock()
	defer s.Unlock()
	if _, err := s.ExecContext(ctx, query, s.GID(), t, o, source, message); err != nil {
		return fmt.Errorf("failed to add sample: %w", err)
	}
	return nil
}

// Delete removes a sample from the storage by its ID
func (s *Samples) Delete(ctx context.Context, id int64) error {
	log.Printf("[DEBUG] deleting sample: %d", id)
	s.Lock()
	defer s.Unlock()

	result, err := s.ExecContext(ctx, s.Adopt(`DELETE FROM samples WHERE gid = ? AND id = ?`), s.GID(), id)
	if err != nil {
		return fmt.Errorf("failed to remove sample: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sample %d: %w", id, ErrNotFound)
	}
	return nil
}

// SampleEntry is a stored sample with its metadata
type SampleEntry struct {
	ID      int64        `db:"id" json:"id"`
	Type    SampleType   `db:"type" json:"type"`
	Origin  SampleOrigin `db:"origin" json:"origin"`
	Source  string       `db:"source" json:"source"`
	Message string       `db:"message" json:"message"`
}

// List returns samples of the type and origin with their ids, the newest first, up to limit entries
func (s *Samples) List(ctx context.Context, t SampleType, o SampleOrigin, limit int) ([]SampleEntry, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	query := `SELECT id, type, origin, source, message FROM samples WHERE gid = ? AND type = ?`
	args := []any{s.GID(), t}
	if o != SampleOriginAny {
		query += ` AND origin = ?`
		args = append(args, o)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	s.RLock()
	defer s.RUnlock()
	res := []SampleEntry{}
	if err := s.SelectContext(ctx, &res, s.Adopt(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	return res, nil
}

// Read reads samples from storage by type and origin, from the oldest to the newest
func (s *Samples) Read(ctx context.Context, t SampleType, o SampleOrigin) ([]string, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	query := `SELECT message FROM samples WHERE gid = ? AND type = ? ORDER BY id`
	args := []any{s.GID(), t}
	if o != SampleOriginAny {
		query = `SELECT message FROM samples WHERE gid = ? AND type = ? AND origin = ? ORDER BY id`
		args = append(args, o)
	}

	s.RLock()
	defer s.RUnlock()
	samples := []string{}
	if err := s.SelectContext(ctx, &samples, s.Adopt(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get samples: %w", err)
	}
	log.Printf("[DEBUG] read %d samples: gid=%s, type=%s, origin=%s", len(samples), s.GID(), t, o)
	return samples, nil
}

// Import stores documents in a single transaction, each element of docs is a source name and
// a reader with the whole document. If withCleanup is true removes all samples with the same type
// and origin before import.
func (s *Samples) Import(ctx context.Context, t SampleType, o SampleOrigin, docs iter.Seq2[string, io.Reader],
	withCleanup bool) (*SamplesStats, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o == SampleOriginAny {
		return nil, fmt.Errorf("can't import samples with origin 'any'")
	}
	query, err := samplesQueries.Pick(s.Type(), CmdAddSample)
	if err != nil {
		return nil, fmt.Errorf("failed to get import query: %w", err)
	}
	gid := s.GID()

	s.Lock()
	defer s.Unlock()

	tx, err := s.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if withCleanup {
		query := s.Adopt(`DELETE FROM samples WHERE gid = ? AND type = ? AND origin = ?`)
		if _, err = tx.ExecContext(ctx, query, gid, t, o); err != nil {
			return nil, fmt.Errorf("failed to remove old samples: %w", err)
		}
	}

	added := 0
	for source, r := range docs {
		data, err := io.ReadAll(io.LimitReader(r, maxSampleSize))
		if err != nil {
			return nil, fmt.Errorf("failed to read sample %s: %w", source, err)
		}
		message := string(data)
		if strings.TrimSpace(message) == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, query, gid, t, o, source, message); err != nil {
			return nil, fmt.Errorf("failed to add sample %s: %w", source, err)
		}
		added++
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Printf("[DEBUG] imported %d samples: gid=%s, type=%s, origin=%s", added, gid, t, o)
	return s.stats(ctx)
}

// String implements Stringer interface
func (t SampleType) String() string { return string(t) }

// Validate checks if the sample type is valid
func (t SampleType) Validate() error {
	switch t {
	case SampleTypeHam, SampleTypeSpam:
		return nil
	}
	return fmt.Errorf("invalid sample type: %s", t)
}

// String implements Stringer interface
func (o SampleOrigin) String() string { return string(o) }

// Validate checks if the sample origin is valid
func (o SampleOrigin) Validate() error {
	switch o {
	case SampleOriginPreset, SampleOriginUser, SampleOriginAny:
		return nil
	}
	return fmt.Errorf("invalid sample origin: %s", o)
}

// SamplesStats returns statistics about samples
type SamplesStats struct {
	TotalSpam  int `db:"spam_count" json:"total_spam"`
	TotalHam   int `db:"ham_count" json:"total_ham"`
	PresetSpam int `db:"preset_spam_count" json:"preset_spam"`
	PresetHam  int `db:"preset_ham_count" json:"preset_ham"`
	UserSpam   int `db:"user_spam_count" json:"user_spam"`
	UserHam    int `db:"user_ham_count" json:"user_ham"`
}

// String provides a string representation of the statistics
func (st *SamplesStats) String() string {
	return fmt.Sprintf("spam: %d, ham: %d, preset spam: %d, preset ham: %d, user spam: %d, user ham: %d",
		st.TotalSpam, st.TotalHam, st.PresetSpam, st.PresetHam, st.UserSpam, st.UserHam)
}

// Stats returns statistics about samples
func (s *Samples) Stats(ctx context.Context) (*SamplesStats, error) {
	s.RLock()
	defer s.RUnlock()
	return s.stats(ctx)
}

// stats returns statistics about samples without locking
func (s *Samples) stats(ctx context.Context) (*SamplesStats, error) {
	query := s.Adopt(`
        SELECT
            COUNT(CASE WHEN type = 'spam' THEN 1 END) as spam_count,
            COUNT(CASE WHEN type = 'ham' THEN 1 END) as ham_count,
            COUNT(CASE WHEN type = 'spam' AND origin = 'preset' THEN 1 END) as preset_spam_count,
            COUNT(CASE WHEN type = 'ham' AND origin = 'preset' THEN 1 END) as preset_ham_count,
            COUNT(CASE WHEN type = 'spam' AND origin = 'user' THEN 1 END) as user_spam_count,
            COUNT(CASE WHEN type = 'ham' AND origin = 'user' THEN 1 END) as user_ham_count
        FROM samples
        WHERE gid = ?`)

	var stats SamplesStats
	if err := s.GetContext(ctx, &stats, query, s.GID()); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}
