// Package contextforge assembles bounded LLM contexts for Go.
//
// ContextForge takes the raw content sources of one conversational turn
// (system prompt, retrieved knowledge, conversation history, current
// message) and produces a context guaranteed to fit the model's window,
// compressing with a configurable strategy when usage crosses a
// threshold.
//
// # Key Features
//
//   - Optimistic assembly: every source becomes a segment, nothing is
//     dropped until the budget says it must be
//   - Four compression strategies: sliding window, drop-low-value,
//     summarize, and a phased hybrid default
//   - Hard guarantees: the system prompt and current message always
//     survive, the most recent history messages are preserved, and a
//     usable context always comes back
//   - Summarizer as an injected capability with timeout and automatic
//     sliding-window fallback
//   - Token estimation via a fast heuristic or an exact tokenizer
//   - PostgreSQL conversation stores (pgx and database/sql)
//   - Hooks for observability and metrics
//
// # Quick Start
//
// Create a builder with the recommended defaults for a model:
//
//	builder, err := contextforge.New(
//	    contextforge.DefaultConfig("claude-sonnet-4-5-20250929"),
//	    contextforge.WithAnthropicSummarizer(&client, "claude-3-5-haiku-20241022"),
//	)
//
// Build a context for the next turn:
//
//	result, err := builder.Build(ctx, contextforge.Request{
//	    SystemPrompt:   "You are a helpful assistant",
//	    Knowledge:      retrieved,
//	    History:        turns,
//	    CurrentMessage: userMessage,
//	})
//	for _, seg := range result.Kept {
//	    // feed seg.Content to the model
//	}
//
// The result reports what happened: tokens used, usage status, the
// strategy that ran, how many history messages were removed, and
// whether the summarizer fell back or the build degraded.
//
// # Determinism
//
// Builds are pure: identical inputs and configuration produce identical
// results, byte for byte. The only nondeterministic component is an
// external summarizer, and only when the Summarize or Hybrid strategy
// actually invokes it.
package contextforge
