package compress

import "github.com/contextforge/contextforge/segment"

// slidingWindow repeatedly removes the oldest HistoryMessage segment
// that is not among the preserved recent tail, recomputing the total
// after each removal, until usage drops under the threshold or no
// removable segment remains. Knowledge and SystemPrompt segments are
// untouched. Each pass strictly shrinks the total, and a context
// already under the threshold is returned unchanged.
func (e *Engine) slidingWindow(segs []segment.Segment, b segment.Budget) ([]segment.Segment, int) {
	total := segment.TotalTokens(segs)
	dropped := 0
	for b.OverThreshold(total) {
		idx := oldestRemovable(segs, b.PreserveRecentMessages)
		if idx < 0 {
			break
		}
		total -= segs[idx].Tokens
		segs = removeAt(segs, idx)
		dropped++
	}
	return segs, dropped
}

// oldestRemovable returns the index of the oldest HistoryMessage
// segment outside the preserved recent tail, or -1 if none remains.
func oldestRemovable(segs []segment.Segment, preserveRecent int) int {
	hist := historyIndexes(segs)
	if len(hist) <= preserveRecent {
		return -1
	}
	return hist[0]
}
