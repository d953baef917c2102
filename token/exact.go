package token

import "github.com/tiktoken-go/tokenizer"

// Counter is the subset of a tokenizer codec used by Exact.
// tokenizer.Codec satisfies it.
type Counter interface {
	Count(text string) (int, error)
}

// Exact estimates tokens with a model-family tokenizer, reverting to
// the character heuristic whenever the tokenizer fails. The fallback is
// silent: estimation errors are never propagated.
type Exact struct {
	codec    Counter
	fallback *Heuristic
}

// NewExact creates an Exact estimator around the given codec. The
// multiplier configures the heuristic fallback.
func NewExact(codec Counter, multiplier float64) *Exact {
	return &Exact{
		codec:    codec,
		fallback: NewHeuristic(multiplier),
	}
}

// NewExactForEncoding creates an Exact estimator for a tiktoken
// encoding, e.g. tokenizer.Cl100kBase or tokenizer.O200kBase.
func NewExactForEncoding(enc tokenizer.Encoding, multiplier float64) (*Exact, error) {
	codec, err := tokenizer.Get(enc)
	if err != nil {
		return nil, err
	}
	return NewExact(codec, multiplier), nil
}

// Estimate returns the exact token count for text, or the heuristic
// estimate if the codec is missing or fails.
func (e *Exact) Estimate(text string) int {
	if len(text) == 0 {
		return 0
	}
	if e.codec != nil {
		if n, err := e.codec.Count(text); err == nil {
			return n
		}
	}
	return e.fallback.Estimate(text)
}
