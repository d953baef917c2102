// Package databasesql provides a database/sql conversation store
// adapter. It works with any PostgreSQL-compatible driver, e.g. lib/pq.
//
// Usage:
//
//	db, _ := sql.Open("postgres", databaseURL)
//	store := databasesql.New(db)
//	builder, _ := contextforge.New(cfg, contextforge.WithStore(store))
package databasesql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/contextforge/contextforge/driver"
)

// Store implements driver.Store for database/sql.
type Store struct {
	db *sql.DB
}

// New creates a new database/sql store with the given handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetTurns retrieves all turns for a session ordered by creation time.
func (s *Store) GetTurns(ctx context.Context, sessionID string) ([]driver.Turn, error) {
	query := `
		SELECT role, content, reference_count, created_at
		FROM conversation_turns
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []driver.Turn
	for rows.Next() {
		var t driver.Turn
		if err := rows.Scan(&t.Role, &t.Content, &t.References, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read turns: %w", err)
	}

	return turns, nil
}
