// Package segment defines the typed, token-counted units of candidate
// context, the token budget they are assembled against, and the value
// scoring used by value-based dropping.
package segment

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies the type of content a segment carries.
type Kind string

const (
	// KindSystemPrompt is the system prompt. Exactly one per context;
	// may be empty but is never absent, and is never dropped.
	KindSystemPrompt Kind = "system_prompt"

	// KindKnowledge is a retrieved knowledge snippet, supplied
	// relevance-ranked by the retriever.
	KindKnowledge Kind = "knowledge"

	// KindHistoryMessage is a prior conversation turn.
	KindHistoryMessage Kind = "history_message"

	// KindCurrentMessage is the current user message. Exactly one per
	// context; its content is only ever altered by the degraded
	// hard-truncate path.
	KindCurrentMessage Kind = "current_message"

	// KindSummary replaces a contiguous range of history messages with
	// a summarizer-produced digest.
	KindSummary Kind = "summary"
)

// Segment is an immutable unit of candidate context. Segments are
// created fresh per assembly call and never mutated in place;
// compression produces new segment lists instead of editing inputs.
type Segment struct {
	// ID is a deterministic identity derived from the segment's kind,
	// position and content, so identical inputs yield identical output.
	ID uuid.UUID

	Kind    Kind
	Content string

	// Role is the original turn role for history segments ("user",
	// "assistant"); empty for other kinds.
	Role string

	// Tokens is the estimated token count, computed once at creation.
	Tokens int

	// Order is the position in conversation time for history and
	// current-message segments; zero and irrelevant for others.
	Order int

	// Seq is the assembly sequence number, used only for deterministic
	// tie-breaking during value-based dropping.
	Seq int

	// Value is the droppability score in [0,1]. SystemPrompt and
	// CurrentMessage always carry 1.0 and are exempt from dropping.
	Value float64
}

// New creates a segment with a deterministic ID.
func New(kind Kind, role, content string, tokens, order, seq int, value float64) Segment {
	name := fmt.Sprintf("%s|%d|%d|%s", kind, order, seq, content)
	return Segment{
		ID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Kind:    kind,
		Content: content,
		Role:    role,
		Tokens:  tokens,
		Order:   order,
		Seq:     seq,
		Value:   value,
	}
}

// TotalTokens sums the token counts of all segments.
func TotalTokens(segs []Segment) int {
	total := 0
	for _, s := range segs {
		total += s.Tokens
	}
	return total
}
