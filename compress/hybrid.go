package compress

import (
	"context"

	"github.com/contextforge/contextforge/segment"
)

// hybrid runs the phased default strategy: drop low-value knowledge
// first (free, keeps history intact), then slide the window over
// non-preserved history, then summarize whatever non-preserved history
// remains. Later phases only run while usage stays over the threshold.
func (e *Engine) hybrid(ctx context.Context, segs []segment.Segment, b segment.Budget) ([]segment.Segment, int, bool) {
	segs, _ = e.dropLowValue(segs, b, true)
	if !b.OverThreshold(segment.TotalTokens(segs)) {
		return segs, 0, false
	}

	segs, dropped := e.slidingWindow(segs, b)
	if !b.OverThreshold(segment.TotalTokens(segs)) {
		return segs, dropped, false
	}

	out, folded, fellBack := e.summarizeOldest(ctx, segs, b)
	return out, dropped + folded, fellBack
}
