package summarize

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/contextforge/contextforge/token"
)

// Extractive is a no-API summarizer that keeps the leading portion of
// the input up to the token allowance, trimmed to a sentence boundary.
// Earlier turns establish the context later turns build on, so the
// start of the block carries the most transferable information.
type Extractive struct {
	estimator token.Estimator
}

// NewExtractive creates an Extractive summarizer. A nil estimator
// selects the default heuristic.
func NewExtractive(estimator token.Estimator) *Extractive {
	if estimator == nil {
		estimator = token.NewHeuristic(1.0)
	}
	return &Extractive{estimator: estimator}
}

// Summarize truncates text to roughly maxOutputTokens, preferring to
// cut at a sentence boundary.
func (e *Extractive) Summarize(ctx context.Context, text string, maxOutputTokens int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if maxOutputTokens <= 0 {
		return "", fmt.Errorf("summarize: non-positive token allowance %d", maxOutputTokens)
	}
	if e.estimator.Estimate(text) <= maxOutputTokens {
		return strings.TrimSpace(text), nil
	}

	maxChars := maxOutputTokens * 4
	if maxChars >= len(text) {
		return strings.TrimSpace(text), nil
	}
	for maxChars > 0 && !utf8.RuneStart(text[maxChars]) {
		maxChars--
	}
	truncated := text[:maxChars]
	if idx := strings.LastIndexAny(truncated, ".!?\n"); idx > maxChars/2 {
		truncated = truncated[:idx+1]
	}
	return strings.TrimSpace(truncated), nil
}
