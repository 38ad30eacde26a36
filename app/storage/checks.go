package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/umputun/spamicity/app/storage/engine"
	"github.com/umputun/spamicity/lib/spamcheck"
)

// Checks is a log of classified documents
type Checks struct {
	*engine.SQL
	engine.RWLocker
}

// CheckEntry is a single classification result
type CheckEntry struct {
	ID          int64     `db:"id" json:"id"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	Source      string    `db:"source" json:"source"`
	Text        string    `db:"text" json:"text"`
	Spam        bool      `db:"spam" json:"spam"`
	Probability float64   `db:"probability" json:"probability"`
	Details     string    `db:"details" json:"details"`
}

// checks-related command constants
const (
	CmdCreateChecksTable engine.DBCmd = iota + 400
	CmdCreateChecksIndexes
)

var checksQueries = engine.NewQueryMap().
	Add(CmdCreateChecksTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS checks (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            gid TEXT NOT NULL DEFAULT '',
            timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
            source TEXT NOT NULL DEFAULT '',
            text TEXT NOT NULL,
            spam BOOLEAN NOT NULL,
            probability REAL NOT NULL,
            details TEXT NOT NULL DEFAULT ''
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS checks (
            id SERIAL PRIMARY KEY,
            gid TEXT NOT NULL DEFAULT '',
            timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            source TEXT NOT NULL DEFAULT '',
            text TEXT NOT NULL,
            spam BOOLEAN NOT NULL,
            probability DOUBLE PRECISION NOT NULL,
            details TEXT NOT NULL DEFAULT ''
        )`,
	}).
	AddSame(CmdCreateChecksIndexes, `CREATE INDEX IF NOT EXISTS idx_checks_gid_ts ON checks(gid, timestamp)`)

// NewChecks creates a new Checks storage
func NewChecks(ctx context.Context, db *engine.SQL) (*Checks, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	cfg := engine.TableConfig{
		Name:          "checks",
		CreateTable:   CmdCreateChecksTable,
		CreateIndexes: CmdCreateChecksIndexes,
		QueriesMap:    checksQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init checks storage: %w", err)
	}
	return &Checks{SQL: db, RWLocker: db.MakeLock()}, nil
}

// Write adds a check result
func (c *Checks) Write(ctx context.Context, req spamcheck.Request, resp spamcheck.Response) error {
	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	c.Lock()
	defer c.Unlock()
	query := c.Adopt(`INSERT INTO checks (gid, timestamp, source, text, spam, probability, details)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := c.ExecContext(ctx, query, c.GID(), ts.UTC(), req.Source, req.Msg, resp.Spam,
		resp.Probability, resp.Details); err != nil {
		return fmt.Errorf("failed to insert check: %w", err)
	}
	log.Printf("[DEBUG] check logged, source:%s, spam:%v, probability:%.4f", req.Source, resp.Spam, resp.Probability)
	return nil
}

// Read returns up to limit most recent checks, newest first
func (c *Checks) Read(ctx context.Context, limit int) ([]CheckEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	c.RLock()
	defer c.RUnlock()

	res := []CheckEntry{}
	query := c.Adopt(`SELECT id, timestamp, source, text, spam, probability, details FROM checks
		WHERE gid = ? ORDER BY timestamp DESC, id DESC LIMIT ?`)
	if err := c.SelectContext(ctx, &res, query, c.GID(), limit); err != nil {
		return nil, fmt.Errorf("failed to get checks: %w", err)
	}
	for i := range res {
		res[i].Timestamp = res[i].Timestamp.Local()
	}
	return res, nil
}
