package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/umputun/spamicity/app/storage/engine"
	"github.com/umputun/spamicity/lib/spamicity"
)

// ErrNoModel returned by Models.Load if nothing was saved for the group
var ErrNoModel = errors.New("no stored model")

// Models is a storage for trained spamicity tables, one per group
type Models struct {
	*engine.SQL
	engine.RWLocker
}

// models-related command constants
const (
	CmdCreateModelTables engine.DBCmd = iota + 300
	CmdCreateModelIndexes
	CmdUpsertModelInfo
)

var modelsQueries = engine.NewQueryMap().
	Add(CmdCreateModelTables, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS spamicity (
            gid TEXT NOT NULL DEFAULT '',
            term TEXT NOT NULL,
            value REAL NOT NULL,
            PRIMARY KEY (gid, term)
        );
        CREATE TABLE IF NOT EXISTS model_info (
            gid TEXT PRIMARY KEY,
            updated DATETIME DEFAULT CURRENT_TIMESTAMP,
            info TEXT NOT NULL
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS spamicity (
            gid TEXT NOT NULL DEFAULT '',
            term TEXT NOT NULL,
            value DOUBLE PRECISION NOT NULL,
            PRIMARY KEY (gid, term)
        );
        CREATE TABLE IF NOT EXISTS model_info (
            gid TEXT PRIMARY KEY,
            updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            info TEXT NOT NULL
        )`,
	}).
	AddSame(CmdCreateModelIndexes, `CREATE INDEX IF NOT EXISTS idx_spamicity_gid ON spamicity(gid)`).
	Add(CmdUpsertModelInfo, engine.Query{
		Sqlite: `INSERT OR REPLACE INTO model_info (gid, info) VALUES (?, ?)`,
		Postgres: `INSERT INTO model_info (gid, info) VALUES ($1, $2)
                  ON CONFLICT (gid) DO UPDATE SET info = EXCLUDED.info, updated = CURRENT_TIMESTAMP`,
	})

// NewModels creates a new Models storage
func NewModels(ctx context.Context, db *engine.SQL) (*Models, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	cfg := engine.TableConfig{
		Name:          "spamicity",
		CreateTable:   CmdCreateModelTables,
		CreateIndexes: CmdCreateModelIndexes,
		QueriesMap:    modelsQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init models storage: %w", err)
	}
	return &Models{SQL: db, RWLocker: db.MakeLock()}, nil
}

// Save replaces the stored table of the group in a single transaction
func (m *Models) Save(ctx context.Context, table *spamicity.Table) error {
	if table == nil {
		return fmt.Errorf("table can't be nil")
	}
	info, err := json.Marshal(table.Info())
	if err != nil {
		return fmt.Errorf("failed to marshal model info: %w", err)
	}
	upsertInfo, err := modelsQueries.Pick(m.Type(), CmdUpsertModelInfo)
	if err != nil {
		return fmt.Errorf("failed to get query: %w", err)
	}

	m.Lock()
	defer m.Unlock()
	tx, err := m.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err = tx.ExecContext(ctx, m.Adopt(`DELETE FROM spamicity WHERE gid = ?`), m.GID()); err != nil {
		return fmt.Errorf("failed to remove old model: %w", err)
	}
	stmt, err := tx.PreparexContext(ctx, m.Adopt(`INSERT INTO spamicity (gid, term, value) VALUES (?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()
	for term, p := range table.Values() {
		if _, err = stmt.ExecContext(ctx, m.GID(), term, p); err != nil {
			return fmt.Errorf("failed to insert term %q: %w", term, err)
		}
	}
	if _, err = tx.ExecContext(ctx, upsertInfo, m.GID(), string(info)); err != nil {
		return fmt.Errorf("failed to save model info: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Printf("[INFO] saved model with %d terms, gid=%s", table.Len(), m.GID())
	return nil
}

// Load reads the stored table of the group
func (m *Models) Load(ctx context.Context) (*spamicity.Table, error) {
	m.RLock()
	defer m.RUnlock()

	var infoJSON string
	err := m.GetContext(ctx, &infoJSON, m.Adopt(`SELECT info FROM model_info WHERE gid = ?`), m.GID())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoModel
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model info: %w", err)
	}
	var info spamicity.TableInfo
	if err = json.Unmarshal([]byte(infoJSON), &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model info: %w", err)
	}

	rows := []struct {
		Term  string  `db:"term"`
		Value float64 `db:"value"`
	}{}
	if err = m.SelectContext(ctx, &rows, m.Adopt(`SELECT term, value FROM spamicity WHERE gid = ?`), m.GID()); err != nil {
		return nil, fmt.Errorf("failed to get model terms: %w", err)
	}
	values := make(map[string]float64, len(rows))
	for _, r := range rows {
		values[r.Term] = r.Value
	}
	table, err := spamicity.NewTable(values, info)
	if err != nil {
		return nil, fmt.Errorf("invalid stored model: %w", err)
	}
	return table, nil
}
