package compress

import (
	"github.com/contextforge/contextforge/segment"
	"github.com/contextforge/contextforge/token"
)

// truncateCurrent hard-truncates the CurrentMessage content to fit the
// budget remaining after all other kept segments. This is the terminal
// degraded case and the only path that ever alters CurrentMessage
// content: truncation is from the end, preserving as much of the start
// as fits. The segment stays present even when nothing fits.
func (e *Engine) truncateCurrent(segs []segment.Segment, effectiveBudget int) []segment.Segment {
	cur := -1
	others := 0
	for i, s := range segs {
		if s.Kind == segment.KindCurrentMessage {
			cur = i
		} else {
			others += s.Tokens
		}
	}
	if cur < 0 {
		return segs
	}

	remaining := effectiveBudget - others
	if remaining < 0 {
		remaining = 0
	}
	content := truncateToTokens(segs[cur].Content, remaining, e.estimator)

	out := append([]segment.Segment(nil), segs...)
	out[cur] = segment.New(
		segment.KindCurrentMessage, out[cur].Role, content,
		e.estimator.Estimate(content), out[cur].Order, out[cur].Seq, 1.0)
	return out
}

// truncateToTokens returns the longest prefix of text, cut on a rune
// boundary, whose estimate fits within maxTokens.
func truncateToTokens(text string, maxTokens int, est token.Estimator) string {
	if maxTokens <= 0 {
		return ""
	}
	if est.Estimate(text) <= maxTokens {
		return text
	}
	runes := []rune(text)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if est.Estimate(string(runes[:mid])) <= maxTokens {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo])
}
