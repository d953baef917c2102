package compress

import (
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/contextforge/contextforge/segment"
	"github.com/contextforge/contextforge/summarize"
	"github.com/contextforge/contextforge/token"
)

var testLogger = log.New(io.Discard, "", 0)

func newTestEngine(s summarize.Summarizer) *Engine {
	return NewEngine(token.NewHeuristic(1.0), s, time.Second, 128, testLogger)
}

// scenarioSegments builds the recurring fixture: a 50-token system
// prompt, nHist history messages of histTokens each, optional knowledge
// segments, and a 40-token current message.
func scenarioSegments(nHist, histTokens int, knowledge ...segment.Segment) []segment.Segment {
	segs := []segment.Segment{
		segment.New(segment.KindSystemPrompt, "", strings.Repeat("s", 200), 50, 0, 0, 1.0),
	}
	seq := 1
	for _, k := range knowledge {
		k.Seq = seq
		segs = append(segs, k)
		seq++
	}
	for i := 0; i < nHist; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		content := strings.Repeat("h", histTokens*4)
		value := 0.3 + 0.5*float64(i+1)/float64(nHist)
		segs = append(segs, segment.New(segment.KindHistoryMessage, role, content, histTokens, i, seq, value))
		seq++
	}
	segs = append(segs, segment.New(segment.KindCurrentMessage, "", strings.Repeat("c", 160), 40, nHist, seq, 1.0))
	return segs
}

func testBudget(preserve int) segment.Budget {
	return segment.Budget{
		ModelCapacityTokens:       1000,
		ReservedForResponseTokens: 200,
		ThresholdPercent:          80,
		PreserveRecentMessages:    preserve,
	}
}

func countKind(segs []segment.Segment, kind segment.Kind) int {
	n := 0
	for _, s := range segs {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func TestSlidingWindowDropsOldestUntilUnderThreshold(t *testing.T) {
	// Budget 1000, reserved 200, threshold 80%: trigger at 640.
	// 50 system + 10x60 history + 40 current = 690; one drop reaches 630.
	segs := scenarioSegments(10, 60)
	res := newTestEngine(nil).Compress(context.Background(), segs, testBudget(3), StrategySlidingWindow)

	if res.Strategy != StrategySlidingWindow {
		t.Errorf("Strategy = %s, want %s", res.Strategy, StrategySlidingWindow)
	}
	if res.DroppedCount != 1 {
		t.Errorf("DroppedCount = %d, want 1", res.DroppedCount)
	}
	if res.TokensUsed != 630 {
		t.Errorf("TokensUsed = %d, want 630", res.TokensUsed)
	}
	if res.Degraded {
		t.Error("Degraded = true, want false")
	}
	if got := countKind(res.Kept, segment.KindHistoryMessage); got != 9 {
		t.Errorf("kept %d history messages, want 9", got)
	}
	// The oldest message went first.
	for _, s := range res.Kept {
		if s.Kind == segment.KindHistoryMessage && s.Order == 0 {
			t.Error("oldest history message survived a sliding-window drop")
		}
	}
}

func TestHybridDropsKnowledgeBeforeHistory(t *testing.T) {
	knowledge := segment.New(segment.KindKnowledge, "", strings.Repeat("k", 800), 200, 0, 0, 0.1)
	segs := scenarioSegments(10, 60, knowledge) // total 890
	res := newTestEngine(nil).Compress(context.Background(), segs, testBudget(3), StrategyHybrid)

	if res.Strategy != StrategyHybrid {
		t.Errorf("Strategy = %s, want %s", res.Strategy, StrategyHybrid)
	}
	if got := countKind(res.Kept, segment.KindKnowledge); got != 0 {
		t.Errorf("kept %d knowledge segments, want 0", got)
	}
	// Knowledge removal (890->690) was not enough; one history drop follows.
	if res.DroppedCount != 1 {
		t.Errorf("DroppedCount = %d, want 1 (history only, knowledge not counted)", res.DroppedCount)
	}
	if res.TokensUsed != 630 {
		t.Errorf("TokensUsed = %d, want 630", res.TokensUsed)
	}
}

func TestSummarizeFullyPreservedHistoryDegrades(t *testing.T) {
	// All 10 history messages are protected and 50+10x80+40 = 890
	// exceeds the 800 effective budget: Summarize cannot proceed and
	// the current message is hard-truncated.
	segs := scenarioSegments(10, 80)
	sum := summarize.Func(func(ctx context.Context, text string, max int) (string, error) {
		t.Fatal("summarizer must not be called when only the preserved tail remains")
		return "", nil
	})
	res := newTestEngine(sum).Compress(context.Background(), segs, testBudget(10), StrategySummarize)

	if !res.Degraded {
		t.Fatal("Degraded = false, want true")
	}
	if got := countKind(res.Kept, segment.KindHistoryMessage); got != 10 {
		t.Errorf("kept %d history messages, want all 10 preserved", got)
	}
	cur := res.Kept[len(res.Kept)-1]
	if cur.Kind != segment.KindCurrentMessage {
		t.Fatal("current message segment missing from kept list")
	}
	if cur.Content != "" {
		t.Errorf("current message content = %q, want fully truncated", cur.Content)
	}
}

func TestThresholdEqualityTriggersCompression(t *testing.T) {
	b := segment.Budget{ModelCapacityTokens: 100, ThresholdPercent: 100, PreserveRecentMessages: 0}
	segs := []segment.Segment{
		segment.New(segment.KindSystemPrompt, "", strings.Repeat("s", 160), 40, 0, 0, 1.0),
		segment.New(segment.KindHistoryMessage, "user", strings.Repeat("h", 80), 20, 0, 1, 0.4),
		segment.New(segment.KindHistoryMessage, "assistant", strings.Repeat("h", 80), 20, 1, 2, 0.6),
		segment.New(segment.KindCurrentMessage, "", strings.Repeat("c", 80), 20, 2, 3, 1.0),
	}
	// Total 100 equals the effective budget: usage ratio 1.0 >= 1.0.
	res := newTestEngine(nil).Compress(context.Background(), segs, b, StrategySlidingWindow)

	if res.Strategy != StrategySlidingWindow {
		t.Errorf("Strategy = %s, want compression at exact equality", res.Strategy)
	}
	if res.DroppedCount != 1 {
		t.Errorf("DroppedCount = %d, want 1", res.DroppedCount)
	}
	if res.TokensUsed != 80 {
		t.Errorf("TokensUsed = %d, want 80", res.TokensUsed)
	}
}

func TestUnderThresholdReturnsUnchanged(t *testing.T) {
	segs := scenarioSegments(0, 0)
	res := newTestEngine(nil).Compress(context.Background(), segs, testBudget(3), StrategyHybrid)

	if res.Strategy != StrategyNone {
		t.Errorf("Strategy = %s, want %s", res.Strategy, StrategyNone)
	}
	if res.Degraded {
		t.Error("Degraded = true, want false")
	}
	if !reflect.DeepEqual(res.Kept, segs) {
		t.Error("under-threshold context must be returned unchanged")
	}
}

func TestDropLowValueRemovesLowestFirst(t *testing.T) {
	knowledge := segment.New(segment.KindKnowledge, "", strings.Repeat("k", 800), 200, 0, 0, 0.1)
	segs := scenarioSegments(10, 60, knowledge) // total 890
	res := newTestEngine(nil).Compress(context.Background(), segs, testBudget(3), StrategyDropLowValue)

	if got := countKind(res.Kept, segment.KindKnowledge); got != 0 {
		t.Errorf("kept %d knowledge segments, want the 0.1-value snippet dropped first", got)
	}
	// 890 -> 690 (knowledge) -> 630 (oldest, lowest-value history).
	if res.TokensUsed != 630 {
		t.Errorf("TokensUsed = %d, want 630", res.TokensUsed)
	}
	if res.DroppedCount != 1 {
		t.Errorf("DroppedCount = %d, want 1", res.DroppedCount)
	}
}

func TestDropLowValueTieBreaksOldestFirst(t *testing.T) {
	segs := []segment.Segment{
		segment.New(segment.KindSystemPrompt, "", "", 0, 0, 0, 1.0),
		segment.New(segment.KindKnowledge, "", "first", 100, 0, 1, 0.5),
		segment.New(segment.KindKnowledge, "", "second", 100, 0, 2, 0.5),
		segment.New(segment.KindCurrentMessage, "", "now", 1, 0, 3, 1.0),
	}
	b := segment.Budget{ModelCapacityTokens: 160, ThresholdPercent: 80}
	// Total 201, trigger at 128; one drop reaches 101, under threshold.
	res := newTestEngine(nil).Compress(context.Background(), segs, b, StrategyDropLowValue)

	if got := countKind(res.Kept, segment.KindKnowledge); got != 1 {
		t.Fatalf("kept %d knowledge segments, want 1", got)
	}
	for _, s := range res.Kept {
		if s.Kind == segment.KindKnowledge && s.Content != "second" {
			t.Errorf("kept %q, want the earlier-sequenced segment dropped on a value tie", s.Content)
		}
	}
}

func TestSummarizeFoldsOldestBlock(t *testing.T) {
	segs := scenarioSegments(10, 60) // total 690, trigger at 640
	var summarized []string
	sum := summarize.Func(func(ctx context.Context, text string, max int) (string, error) {
		summarized = append(summarized, text)
		return "summary of earlier turns", nil // 6 tokens
	})
	res := newTestEngine(sum).Compress(context.Background(), segs, testBudget(3), StrategySummarize)

	// Folding the single oldest message reaches 690-60+6 = 636 < 640.
	if res.Strategy != StrategySummarize {
		t.Errorf("Strategy = %s, want %s", res.Strategy, StrategySummarize)
	}
	if res.DroppedCount != 1 {
		t.Errorf("DroppedCount = %d, want 1", res.DroppedCount)
	}
	if res.TokensUsed != 636 {
		t.Errorf("TokensUsed = %d, want 636", res.TokensUsed)
	}
	if got := countKind(res.Kept, segment.KindSummary); got != 1 {
		t.Fatalf("kept %d summary segments, want 1", got)
	}
	if len(summarized) != 1 || !strings.HasPrefix(summarized[0], "user: ") {
		t.Errorf("summarizer input = %q, want role-prefixed oldest turn", summarized)
	}

	// Summary sits where the folded block began.
	var kinds []segment.Kind
	for _, s := range res.Kept {
		kinds = append(kinds, s.Kind)
	}
	if kinds[0] != segment.KindSystemPrompt || kinds[1] != segment.KindSummary {
		t.Errorf("kept kinds = %v, want summary immediately after system prompt", kinds)
	}
	if kinds[len(kinds)-1] != segment.KindCurrentMessage {
		t.Error("current message must stay last")
	}
}

func TestSummarizeGrowsBlockWhenSummaryTooBig(t *testing.T) {
	segs := scenarioSegments(10, 60)
	calls := 0
	sum := summarize.Func(func(ctx context.Context, text string, max int) (string, error) {
		calls++
		if calls == 1 {
			// 60 tokens: folding one 60-token message saves nothing.
			return strings.Repeat("x", 240), nil
		}
		return "short summary", nil // 4 tokens
	})
	res := newTestEngine(sum).Compress(context.Background(), segs, testBudget(3), StrategySummarize)

	if calls != 2 {
		t.Errorf("summarizer called %d times, want 2 (block regrown once)", calls)
	}
	// Two messages folded: 690 - 120 + 4 = 574.
	if res.DroppedCount != 2 {
		t.Errorf("DroppedCount = %d, want 2", res.DroppedCount)
	}
	if res.TokensUsed != 574 {
		t.Errorf("TokensUsed = %d, want 574", res.TokensUsed)
	}
	if got := countKind(res.Kept, segment.KindSummary); got != 1 {
		t.Errorf("kept %d summary segments, want exactly 1 covering the block", got)
	}
}

func TestSummarizerFailureFallsBackToSlidingWindow(t *testing.T) {
	segs := scenarioSegments(10, 60)
	sum := summarize.Func(func(ctx context.Context, text string, max int) (string, error) {
		return "", errors.New("summarizer down")
	})
	res := newTestEngine(sum).Compress(context.Background(), segs, testBudget(3), StrategySummarize)

	if !res.SummarizerFellBack {
		t.Error("SummarizerFellBack = false, want true")
	}
	if res.Strategy != StrategySlidingWindow {
		t.Errorf("Strategy = %s, want %s after fallback", res.Strategy, StrategySlidingWindow)
	}
	if got := countKind(res.Kept, segment.KindSummary); got != 0 {
		t.Errorf("kept %d summary segments, want 0 after fallback", got)
	}
	if res.DroppedCount != 1 || res.TokensUsed != 630 {
		t.Errorf("fallback result = (%d dropped, %d tokens), want (1, 630)", res.DroppedCount, res.TokensUsed)
	}
}

func TestSummarizerTimeoutFallsBack(t *testing.T) {
	segs := scenarioSegments(10, 60)
	sum := summarize.Func(func(ctx context.Context, text string, max int) (string, error) {
		select {
		case <-time.After(5 * time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	e := NewEngine(token.NewHeuristic(1.0), sum, 10*time.Millisecond, 128, testLogger)
	res := e.Compress(context.Background(), segs, testBudget(3), StrategySummarize)

	if !res.SummarizerFellBack {
		t.Error("SummarizerFellBack = false, want true on timeout")
	}
	if res.Degraded {
		t.Error("timeout must degrade to sliding window, not to truncation")
	}
}

func TestDegradedTruncationPreservesMessageStart(t *testing.T) {
	content := strings.Repeat("abcd", 40) // 160 chars, 40 tokens
	segs := []segment.Segment{
		segment.New(segment.KindSystemPrompt, "", strings.Repeat("s", 3160), 790, 0, 0, 1.0),
		segment.New(segment.KindCurrentMessage, "", content, 40, 0, 1, 1.0),
	}
	// 830 total, 800 effective budget, nothing droppable: 10 tokens
	// remain for the current message.
	res := newTestEngine(nil).Compress(context.Background(), segs, testBudget(0), StrategySlidingWindow)

	if !res.Degraded {
		t.Fatal("Degraded = false, want true")
	}
	cur := res.Kept[len(res.Kept)-1]
	if cur.Kind != segment.KindCurrentMessage {
		t.Fatal("current message missing")
	}
	if cur.Content != content[:40] {
		t.Errorf("truncated content = %q (%d chars), want the first 40 chars", cur.Content, len(cur.Content))
	}
	if cur.Tokens != 10 {
		t.Errorf("truncated tokens = %d, want 10", cur.Tokens)
	}
}

func TestPreserveCountInvariant(t *testing.T) {
	for _, strategy := range []Strategy{StrategySlidingWindow, StrategyDropLowValue, StrategyHybrid} {
		t.Run(string(strategy), func(t *testing.T) {
			segs := scenarioSegments(10, 60)
			res := newTestEngine(nil).Compress(context.Background(), segs, testBudget(3), strategy)
			if res.Degraded {
				t.Fatal("unexpected degradation")
			}
			if got := countKind(res.Kept, segment.KindHistoryMessage); got < 3 {
				t.Errorf("kept %d history messages, preserve count is 3", got)
			}
			// The three most recent survive untouched.
			want := map[int]bool{7: true, 8: true, 9: true}
			for _, s := range res.Kept {
				if s.Kind == segment.KindHistoryMessage {
					delete(want, s.Order)
				}
			}
			if len(want) != 0 {
				t.Errorf("recent history orders %v were dropped", want)
			}
		})
	}
}

func TestCompressDoesNotMutateInput(t *testing.T) {
	segs := scenarioSegments(10, 60)
	original := append([]segment.Segment(nil), segs...)
	newTestEngine(nil).Compress(context.Background(), segs, testBudget(3), StrategySlidingWindow)
	if !reflect.DeepEqual(segs, original) {
		t.Error("Compress mutated its input segment list")
	}
}

func TestCompressDeterministic(t *testing.T) {
	sum := summarize.Func(func(ctx context.Context, text string, max int) (string, error) {
		return "summary of earlier turns", nil
	})
	for _, strategy := range []Strategy{StrategySlidingWindow, StrategyDropLowValue, StrategySummarize, StrategyHybrid} {
		t.Run(string(strategy), func(t *testing.T) {
			a := newTestEngine(sum).Compress(context.Background(), scenarioSegments(10, 60), testBudget(3), strategy)
			b := newTestEngine(sum).Compress(context.Background(), scenarioSegments(10, 60), testBudget(3), strategy)
			if !reflect.DeepEqual(a, b) {
				t.Error("identical inputs produced different results")
			}
		})
	}
}

func TestSlidingWindowMonotonic(t *testing.T) {
	segs := scenarioSegments(10, 60)
	b := segment.Budget{ModelCapacityTokens: 400, ThresholdPercent: 80, PreserveRecentMessages: 2}
	prev := segment.TotalTokens(segs)
	for {
		idx := oldestRemovable(segs, b.PreserveRecentMessages)
		if idx < 0 {
			break
		}
		segs = removeAt(segs, idx)
		total := segment.TotalTokens(segs)
		if total >= prev {
			t.Fatalf("removal did not strictly decrease total: %d -> %d", prev, total)
		}
		prev = total
	}
}

func TestNoSummarizerConfiguredFallsBack(t *testing.T) {
	segs := scenarioSegments(10, 60)
	res := newTestEngine(nil).Compress(context.Background(), segs, testBudget(3), StrategySummarize)
	if !res.SummarizerFellBack {
		t.Error("SummarizerFellBack = false, want true with no summarizer configured")
	}
	if res.Strategy != StrategySlidingWindow {
		t.Errorf("Strategy = %s, want %s", res.Strategy, StrategySlidingWindow)
	}
}
