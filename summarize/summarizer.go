// Package summarize defines the Summarizer capability used by the
// Summarize and Hybrid compression strategies, with an Anthropic-backed
// implementation and a local extractive one.
//
// The Summarizer is an injected capability: the compression engine
// invokes it with a caller-supplied timeout and falls back to the
// sliding window on any error, so a summarizer failure never fails the
// overall build.
package summarize

import "context"

// Summarizer condenses text to fit within a token allowance.
type Summarizer interface {
	// Summarize returns a summary of text no longer than roughly
	// maxOutputTokens. It must honor ctx cancellation.
	Summarize(ctx context.Context, text string, maxOutputTokens int) (string, error)
}

// Func adapts a function to the Summarizer interface.
type Func func(ctx context.Context, text string, maxOutputTokens int) (string, error)

// Summarize calls f.
func (f Func) Summarize(ctx context.Context, text string, maxOutputTokens int) (string, error) {
	return f(ctx, text, maxOutputTokens)
}
