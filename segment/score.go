package segment

// Weights controls the components of history value scoring. The three
// components are combined as base + recency*position + reference*usage
// and clamped to [0,1].
type Weights struct {
	// Base is the per-kind base weight added to every history message.
	Base float64

	// Recency scales the normalized conversation position (most recent
	// message approaches 1.0).
	Recency float64

	// Reference scales the explicit reference/usage count, capped at
	// maxScoredReferences.
	Reference float64
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() Weights {
	return Weights{Base: 0.3, Recency: 0.5, Reference: 0.2}
}

// maxScoredReferences caps the reference count contribution; beyond
// this, additional references carry no extra weight.
const maxScoredReferences = 5

// Scorer derives droppability values for segments. Knowledge values
// come straight from the retriever's reference score; history values
// combine recency and usage with the configured weights.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer. A zero Weights value selects the defaults.
func NewScorer(w Weights) *Scorer {
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	return &Scorer{weights: w}
}

// History scores the history message at index (0 = oldest) out of total
// messages, with the given explicit reference count.
func (s *Scorer) History(index, total, references int) float64 {
	if total <= 0 {
		return clamp01(s.weights.Base)
	}
	recency := float64(index+1) / float64(total)
	refs := references
	if refs > maxScoredReferences {
		refs = maxScoredReferences
	}
	refNorm := float64(refs) / float64(maxScoredReferences)
	return clamp01(s.weights.Base + s.weights.Recency*recency + s.weights.Reference*refNorm)
}

// Knowledge scores a knowledge snippet from its retriever-supplied
// reference score. The retriever has already ranked the items; the
// score passes through, clamped to [0,1].
func (s *Scorer) Knowledge(referenceScore float64) float64 {
	return clamp01(referenceScore)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
