// Package token provides approximate token counting for context budgeting.
//
// The default Heuristic estimator uses character-based approximation
// (~4 characters per token) scaled by a configurable per-language
// multiplier. An exact tokenizer can be swapped in via Exact; any
// failure in the exact tokenizer silently reverts to the heuristic, so
// estimation never fails.
package token

import "math"

// Estimator converts a text segment into an approximate token count.
// Implementations must be pure and total: deterministic for identical
// input, never failing, and safe for concurrent use.
type Estimator interface {
	Estimate(text string) int
}

// Heuristic estimates tokens from character count (~4 characters per
// token), scaled by a per-language multiplier. A multiplier of 1.3 is a
// reasonable choice for word-dense English text; 1.0 is the default.
type Heuristic struct {
	multiplier float64
}

// NewHeuristic creates a Heuristic estimator with the given multiplier.
// Non-positive multipliers are treated as 1.0.
func NewHeuristic(multiplier float64) *Heuristic {
	if multiplier <= 0 {
		multiplier = 1.0
	}
	return &Heuristic{multiplier: multiplier}
}

// Estimate returns ceil(len(text)/4) scaled by the multiplier, with a
// minimum of 1 token for non-empty text.
func (h *Heuristic) Estimate(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := (len(text) + 3) / 4
	if h.multiplier != 1.0 {
		tokens = int(math.Ceil(float64(tokens) * h.multiplier))
	}
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
