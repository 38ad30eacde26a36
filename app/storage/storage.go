// Package storage provides persistence of training samples, stop words, trained models and check results
// in sql databases. Each table is represented by a struct with methods implementing business logic for this
// data type, on top of engine.SQL which hides differences between sqlite and postgres.
// All tables are partitioned by the engine's group id, so several independent models can share a database.
package storage

import "errors"

// ErrNotFound returned on deletion of a missing record
var ErrNotFound = errors.New("not found")

// shorten cuts the string to max bytes for logging
func shorten(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
