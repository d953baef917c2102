// Package pgxv5 provides a pgx/v5 conversation store adapter.
//
// Usage:
//
//	pool, _ := pgxpool.New(ctx, databaseURL)
//	store := pgxv5.New(pool)
//	builder, _ := contextforge.New(cfg, contextforge.WithStore(store))
package pgxv5

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contextforge/contextforge/driver"
)

// Schema is the table the adapter reads from. It is provided for
// convenience; the adapter itself never creates or modifies it.
const Schema = `
CREATE TABLE IF NOT EXISTS conversation_turns (
    id              BIGSERIAL PRIMARY KEY,
    session_id      TEXT        NOT NULL,
    role            TEXT        NOT NULL,
    content         TEXT        NOT NULL,
    reference_count INTEGER     NOT NULL DEFAULT 0,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS conversation_turns_session_idx
    ON conversation_turns (session_id, created_at);
`

// Store implements driver.Store for pgx/v5.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new pgx/v5 store with the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetTurns retrieves all turns for a session ordered by creation time.
func (s *Store) GetTurns(ctx context.Context, sessionID string) ([]driver.Turn, error) {
	query := `
		SELECT role, content, reference_count, created_at
		FROM conversation_turns
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, sessionID)
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
