// Package assemble builds the optimistic candidate context: every
// content source becomes a segment, nothing is dropped. Budget checks
// and compression happen downstream.
package assemble

import (
	"github.com/contextforge/contextforge/driver"
	"github.com/contextforge/contextforge/segment"
	"github.com/contextforge/contextforge/token"
)

// Input carries the raw content sources for one assembly.
type Input struct {
	SystemPrompt   string
	Knowledge      []driver.KnowledgeItem
	History        []driver.Turn
	CurrentMessage string
}

// Assembler turns raw inputs into an ordered candidate segment list:
// one SystemPrompt segment, one Knowledge segment per retrieved item in
// the order supplied (assumed relevance-ranked; never re-ranked), one
// HistoryMessage segment per prior turn in chronological order, and one
// CurrentMessage segment last.
type Assembler struct {
	estimator token.Estimator
	scorer    *segment.Scorer

	// normalize optionally preprocesses knowledge content (e.g.
	// markdown to plain text) before estimation.
	normalize func(string) string
}

// New creates an Assembler. normalize may be nil.
func New(estimator token.Estimator, scorer *segment.Scorer, normalize func(string) string) *Assembler {
	if scorer == nil {
		scorer = segment.NewScorer(segment.Weights{})
	}
	return &Assembler{estimator: estimator, scorer: scorer, normalize: normalize}
}

// Assemble returns the full candidate list and its token total.
func (a *Assembler) Assemble(in Input) ([]segment.Segment, int) {
	segs := make([]segment.Segment, 0, len(in.Knowledge)+len(in.History)+2)
	seq := 0

	// The system prompt may be empty but is never absent.
	segs = append(segs, segment.New(
		segment.KindSystemPrompt, "", in.SystemPrompt,
		a.estimator.Estimate(in.SystemPrompt), 0, seq, 1.0))
	seq++

	for _, k := range in.Knowledge {
		content := k.Content
		if a.normalize != nil {
			content = a.normalize(content)
		}
		segs = append(segs, segment.New(
			segment.KindKnowledge, "", content,
			a.estimator.Estimate(content), 0, seq,
			a.scorer.Knowledge(k.ReferenceScore)))
		seq++
	}

	n := len(in.History)
	for i, turn := range in.History {
		segs = append(segs, segment.New(
			segment.KindHistoryMessage, turn.Role, turn.Content,
			a.estimator.Estimate(turn.Content), i, seq,
			a.scorer.History(i, n, turn.References)))
		seq++
	}

	segs = append(segs, segment.New(
		segment.KindCurrentMessage, "", in.CurrentMessage,
		a.estimator.Estimate(in.CurrentMessage), n, seq, 1.0))

	return segs, segment.TotalTokens(segs)
}
