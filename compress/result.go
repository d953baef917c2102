package compress

import "github.com/contextforge/contextforge/segment"

// Strategy selects the compression algorithm. Strategies are dispatched
// as a tagged variant so each algorithm stays independently testable.
type Strategy string

const (
	// StrategyNone means no compression was applied.
	StrategyNone Strategy = "none"

	// StrategySlidingWindow removes the oldest non-preserved history
	// messages until usage is under the threshold.
	StrategySlidingWindow Strategy = "sliding_window"

	// StrategyDropLowValue removes the lowest-value droppable segments
	// (knowledge and non-preserved history) first.
	StrategyDropLowValue Strategy = "drop_low_value"

	// StrategySummarize folds the oldest non-preserved history into a
	// single Summary segment produced by the Summarizer.
	StrategySummarize Strategy = "summarize"

	// StrategyHybrid drops low-value knowledge, then slides the window,
	// then summarizes what remains. This is the default.
	StrategyHybrid Strategy = "hybrid"
)

// valid reports whether s names a dispatchable strategy.
func (s Strategy) valid() bool {
	switch s {
	case StrategySlidingWindow, StrategyDropLowValue, StrategySummarize, StrategyHybrid:
		return true
	}
	return false
}

// Result is the outcome of one assembly+compression pass.
type Result struct {
	// Kept is the final ordered segment list: SystemPrompt first, then
	// Knowledge, then HistoryMessage/Summary in time order, then
	// CurrentMessage.
	Kept []segment.Segment

	// DroppedCount is the number of original HistoryMessage segments
	// removed or folded into a Summary. Knowledge removals are visible
	// in Kept but not counted here.
	DroppedCount int

	// Strategy is the strategy that actually ran. When the Summarize
	// strategy falls back, this reports StrategySlidingWindow and
	// SummarizerFellBack is set.
	Strategy Strategy

	TokensUsed int
	UsageRatio float64
	Status     segment.Status

	// Degraded is true only if the budget could not be satisfied
	// without truncating the CurrentMessage content itself.
	Degraded bool

	// SummarizerFellBack is true when the Summarizer could not be
	// reached or failed and the sliding window was substituted for the
	// remainder of the call.
	SummarizerFellBack bool
}

// Uncompressed builds a no-compression Result for a context that
// already fits.
func Uncompressed(segs []segment.Segment, b segment.Budget) *Result {
	total := segment.TotalTokens(segs)
	return &Result{
		Kept:       segs,
		Strategy:   StrategyNone,
		TokensUsed: total,
		UsageRatio: b.UsageRatio(total),
		Status:     b.Classify(total),
	}
}
