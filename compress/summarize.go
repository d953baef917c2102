package compress

import (
	"context"
	"strings"

	"github.com/contextforge/contextforge/segment"
)

// summarizeOldest grows a block over the oldest contiguous non-preserved
// HistoryMessage segments one message at a time. After each growth the
// block's original concatenated content is re-summarized and the block
// is replaced with a single Summary segment; growth stops once usage is
// under the threshold or only the preserved tail remains. Any
// summarizer failure or timeout switches the remainder of the call to
// the sliding window, applied to the original segments.
//
// Returns the new list, the number of history messages folded or
// dropped, and whether the sliding-window fallback was taken.
func (e *Engine) summarizeOldest(ctx context.Context, segs []segment.Segment, b segment.Budget) ([]segment.Segment, int, bool) {
	if e.summarizer == nil {
		e.logger.Printf("[contextforge] no summarizer configured, using sliding window")
		out, dropped := e.slidingWindow(segs, b)
		return out, dropped, true
	}

	hist := historyIndexes(segs)
	removable := len(hist) - b.PreserveRecentMessages
	if removable <= 0 {
		return segs, 0, false
	}

	out := segs
	folded := 0
	for k := 1; k <= removable; k++ {
		block := make([]segment.Segment, k)
		for i := 0; i < k; i++ {
			block[i] = segs[hist[i]]
		}

		summaryText, err := e.summarizeWithTimeout(ctx, concatForSummary(block))
		if err != nil {
			e.logger.Printf("[contextforge] summarizer failed, using sliding window: %v", err)
			fallback, dropped := e.slidingWindow(segs, b)
			return fallback, dropped, true
		}

		out = replaceWithSummary(segs, hist[:k], summaryText, e.estimator.Estimate(summaryText))
		folded = k
		if !b.OverThreshold(segment.TotalTokens(out)) {
			break
		}
	}
	return out, folded, false
}

// summarizeWithTimeout invokes the summarizer under the configured
// per-call timeout.
func (e *Engine) summarizeWithTimeout(ctx context.Context, text string) (string, error) {
	if e.summarizerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.summarizerTimeout)
		defer cancel()
	}
	return e.summarizer.Summarize(ctx, text, e.summaryMaxTokens)
}

// concatForSummary renders a block of history segments as role-prefixed
// lines for the summarizer.
func concatForSummary(block []segment.Segment) string {
	var sb strings.Builder
	for _, s := range block {
		role := s.Role
		if role == "" {
			role = "user"
		}
		sb.WriteString(role)
		sb.WriteString(": ")
		sb.WriteString(s.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// replaceWithSummary returns segs with the segments at blockIdx
// replaced by one Summary segment at the position of the block's first
// element. The summary fully covers the contiguous block: no gaps, no
// overlap. Its value is the mean of the folded messages, and its order
// is the block head's so time ordering is preserved.
func replaceWithSummary(segs []segment.Segment, blockIdx []int, summaryText string, summaryTokens int) []segment.Segment {
	inBlock := make(map[int]bool, len(blockIdx))
	for _, i := range blockIdx {
		inBlock[i] = true
	}
	first := blockIdx[0]

	meanValue := 0.0
	for _, i := range blockIdx {
		meanValue += segs[i].Value
	}
	meanValue /= float64(len(blockIdx))

	summary := segment.New(
		segment.KindSummary, "", summaryText,
		summaryTokens, segs[first].Order, segs[first].Seq, meanValue)

	out := make([]segment.Segment, 0, len(segs)-len(blockIdx)+1)
	for i, s := range segs {
		if inBlock[i] {
			if i == first {
				out = append(out, summary)
			}
			continue
		}
		out = append(out, s)
	}
	return out
}
