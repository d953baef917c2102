// Package compress applies a configured strategy to bring an
// over-budget candidate context back under budget.
//
// The engine is a pure function of its inputs: it holds no shared
// mutable state, never mutates the segment list it is given, and is
// safe to invoke concurrently for arbitrarily many conversations. The
// only suspension point is the Summarize strategy's call into the
// external Summarizer, which runs under a caller-supplied timeout and
// falls back to the sliding window on any failure. No error here ever
// prevents returning a usable context.
package compress

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/contextforge/contextforge/segment"
	"github.com/contextforge/contextforge/summarize"
	"github.com/contextforge/contextforge/token"
)

// Engine compresses candidate contexts.
type Engine struct {
	estimator         token.Estimator
	summarizer        summarize.Summarizer
	summarizerTimeout time.Duration
	summaryMaxTokens  int
	logger            *log.Logger
}

// NewEngine creates an Engine. summarizer may be nil, in which case the
// Summarize strategy always falls back to the sliding window. A nil
// logger selects log.Default().
func NewEngine(estimator token.Estimator, summarizer summarize.Summarizer, summarizerTimeout time.Duration, summaryMaxTokens int, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		estimator:         estimator,
		summarizer:        summarizer,
		summarizerTimeout: summarizerTimeout,
		summaryMaxTokens:  summaryMaxTokens,
		logger:            logger,
	}
}

// Compress applies the selected strategy to segs under the budget. It
// never removes the SystemPrompt or CurrentMessage segment, never
// reduces the preserved recent history below the configured count
// except in the terminal degraded case, and never returns an error:
// failures escalate through fallbacks down to the degraded
// hard-truncate of the CurrentMessage.
func (e *Engine) Compress(ctx context.Context, segs []segment.Segment, b segment.Budget, strategy Strategy) *Result {
	total := segment.TotalTokens(segs)
	if !b.OverThreshold(total) {
		return Uncompressed(segs, b)
	}

	// Work on a copy; inputs are never mutated.
	kept := append([]segment.Segment(nil), segs...)
	dropped := 0
	fellBack := false

	if !strategy.valid() {
		strategy = StrategyHybrid
	}
	switch strategy {
	case StrategySlidingWindow:
		kept, dropped = e.slidingWindow(kept, b)
	case StrategyDropLowValue:
		kept, dropped = e.dropLowValue(kept, b, false)
	case StrategySummarize:
		kept, dropped, fellBack = e.summarizeOldest(ctx, kept, b)
		if fellBack {
			strategy = StrategySlidingWindow
		}
	case StrategyHybrid:
		kept, dropped, fellBack = e.hybrid(ctx, kept, b)
	}

	degraded := false
	if segment.TotalTokens(kept) > b.EffectiveBudget() {
		kept = e.truncateCurrent(kept, b.EffectiveBudget())
		degraded = true
	}

	return e.resultFor(kept, b, strategy, dropped, degraded, fellBack)
}

// FitToCapacity hard-truncates the CurrentMessage of a raw context that
// exceeds the effective budget. Used on the compression-disabled path
// when the assembled context cannot fit the model at all.
func (e *Engine) FitToCapacity(segs []segment.Segment, b segment.Budget) *Result {
	kept := append([]segment.Segment(nil), segs...)
	kept = e.truncateCurrent(kept, b.EffectiveBudget())
	return e.resultFor(kept, b, StrategyNone, 0, true, false)
}

func (e *Engine) resultFor(kept []segment.Segment, b segment.Budget, strategy Strategy, dropped int, degraded, fellBack bool) *Result {
	total := segment.TotalTokens(kept)
	return &Result{
		Kept:               kept,
		DroppedCount:       dropped,
		Strategy:           strategy,
		TokensUsed:         total,
		UsageRatio:         b.UsageRatio(total),
		Status:             b.Classify(total),
		Degraded:           degraded,
		SummarizerFellBack: fellBack,
	}
}

// historyIndexes returns the positions of HistoryMessage segments in
// segs, oldest first by Order.
func historyIndexes(segs []segment.Segment) []int {
	var idx []int
	for i, s := range segs {
		if s.Kind == segment.KindHistoryMessage {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool {
		return segs[idx[a]].Order < segs[idx[b]].Order
	})
	return idx
}

// removeAt returns segs without the element at i, preserving order.
func removeAt(segs []segment.Segment, i int) []segment.Segment {
	out := make([]segment.Segment, 0, len(segs)-1)
	out = append(out, segs[:i]...)
	return append(out, segs[i+1:]...)
}
