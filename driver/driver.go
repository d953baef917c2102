// Package driver defines the read-only conversation store collaborator.
//
// The context builder does not persist anything; conversation turns are
// supplied by an external store. This package defines the interface a
// store must implement plus the types exchanged with the builder.
// Adapters for pgx/v5 and database/sql live in the subpackages:
//   - github.com/contextforge/contextforge/driver/pgxv5
//   - github.com/contextforge/contextforge/driver/databasesql
package driver

import (
	"context"
	"time"
)

// Turn is one prior conversation turn, ordered by CreatedAt.
type Turn struct {
	// Role is the speaker, typically "user" or "assistant".
	Role string

	// Content is the turn's text.
	Content string

	// References is an explicit reference/usage count for the turn. It
	// feeds value-based dropping: frequently referenced turns score
	// higher and are dropped later.
	References int

	// CreatedAt orders turns in conversation time.
	CreatedAt time.Time
}

// KnowledgeItem is a retrieved knowledge snippet. The retriever has
// already ranked items by relevance; the builder never re-ranks them.
type KnowledgeItem struct {
	// Content is the snippet text (may be markdown).
	Content string

	// ReferenceScore is the retriever's relevance score in [0,1]. It
	// becomes the segment's droppability value.
	ReferenceScore float64
}

// Store supplies ordered prior turns for a session. Read-only: the
// builder never writes through this interface.
type Store interface {
	// GetTurns returns all turns for the session, oldest first.
	GetTurns(ctx context.Context, sessionID string) ([]Turn, error)
}
