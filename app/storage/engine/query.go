package engine

import (
	"fmt"
	"sync"
)

// DBCmd represents a database command type
type DBCmd int

// Query is a SQL query with dialect-specific variants. Empty Postgres means
// the sqlite text works for postgres too (after Adopt).
type Query struct {
	Sqlite   string
	Postgres string
}

// QueryMap maps commands to their dialect-specific queries
type QueryMap struct {
	queries map[DBCmd]Query
}

// NewQueryMap creates a new QueryMap
func NewQueryMap() *QueryMap {
	return &QueryMap{queries: make(map[DBCmd]Query)}
}

// Add adds queries for a command
func (q *QueryMap) Add(cmd DBCmd, query Query) *QueryMap {
	q.queries[cmd] = query
	return q
}

// AddSame adds the same query for all dialects
func (q *QueryMap) AddSame(cmd DBCmd, query string) *QueryMap {
	return q.Add(cmd, Query{Sqlite: query})
}

// Pick returns a query for given db type and command
func (q *QueryMap) Pick(dbType Type, cmd DBCmd) (string, error) {
	query, ok := q.queries[cmd]
	if !ok {
		return "", fmt.Errorf("unsupported command type %d", cmd)
	}

	switch dbType {
	case Sqlite:
		return query.Sqlite, nil
	case Postgres:
		if query.Postgres == "" {
			return query.Sqlite, nil
		}
		return query.Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

// RWLocker is a read-write locker interface, satisfied by sync.RWMutex
type RWLocker interface {
	sync.Locker
	RLock()
	RUnlock()
}

// NoopLocker is a locker for engines with their own concurrency control
type NoopLocker struct{}

func (NoopLocker) Lock()    {}
func (NoopLocker) Unlock()  {}
func (NoopLocker) RLock()   {}
func (NoopLocker) RUnlock() {}
