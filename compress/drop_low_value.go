package compress

import "github.com/contextforge/contextforge/segment"

// dropLowValue removes the lowest-value droppable segment one at a
// time, recomputing the total after each removal, until usage drops
// under the threshold or no droppable segment remains. Droppable
// segments are Knowledge and non-preserved HistoryMessage; with
// knowledgeOnly set (the Hybrid first phase) history is exempt. Ties on
// value break by assembly sequence, oldest first.
//
// Returns the new list and the number of HistoryMessage segments
// removed; Knowledge removals are not counted.
func (e *Engine) dropLowValue(segs []segment.Segment, b segment.Budget, knowledgeOnly bool) ([]segment.Segment, int) {
	total := segment.TotalTokens(segs)
	droppedHistory := 0
	for b.OverThreshold(total) {
		idx := lowestValueDroppable(segs, b.PreserveRecentMessages, knowledgeOnly)
		if idx < 0 {
			break
		}
		if segs[idx].Kind == segment.KindHistoryMessage {
			droppedHistory++
		}
		total -= segs[idx].Tokens
		segs = removeAt(segs, idx)
	}
	return segs, droppedHistory
}

// lowestValueDroppable returns the index of the droppable segment with
// the lowest value, or -1 if none remains.
func lowestValueDroppable(segs []segment.Segment, preserveRecent int, knowledgeOnly bool) int {
	hist := historyIndexes(segs)
	protected := make(map[int]bool, preserveRecent)
	if tail := len(hist) - preserveRecent; tail >= 0 {
		for _, i := range hist[tail:] {
			protected[i] = true
		}
	} else {
		for _, i := range hist {
			protected[i] = true
		}
	}

	best := -1
	for i, s := range segs {
		switch s.Kind {
		case segment.KindKnowledge:
		case segment.KindHistoryMessage:
			if knowledgeOnly || protected[i] {
				continue
			}
		default:
			continue
		}
		if best < 0 || s.Value < segs[best].Value ||
			(s.Value == segs[best].Value && s.Seq < segs[best].Seq) {
			best = i
		}
	}
	return best
}
