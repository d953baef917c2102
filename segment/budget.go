package segment

// Status classifies context usage for observability. The bands are
// independent of the configurable compression threshold: compression
// triggers strictly on ThresholdPercent, not on these labels.
type Status string

const (
	// StatusSafe indicates usage below 50% of the effective budget.
	StatusSafe Status = "safe"

	// StatusMonitor indicates usage in [50%, 80%).
	StatusMonitor Status = "monitor"

	// StatusCritical indicates usage at or above 80%.
	StatusCritical Status = "critical"
)

// Classify returns the usage status for tokensUsed against
// effectiveBudget. Boundaries are evaluated in integer arithmetic so
// classification is exact at the band edges.
func Classify(tokensUsed, effectiveBudget int) Status {
	if effectiveBudget <= 0 {
		return StatusCritical
	}
	switch {
	case tokensUsed*10 < effectiveBudget*5:
		return StatusSafe
	case tokensUsed*10 < effectiveBudget*8:
		return StatusMonitor
	default:
		return StatusCritical
	}
}

// Budget describes the token budget one context is assembled against.
type Budget struct {
	// ModelCapacityTokens is the context window of the target model.
	ModelCapacityTokens int

	// ReservedForResponseTokens is held back for the model's output.
	ReservedForResponseTokens int

	// ThresholdPercent in [1,100]: compression triggers when
	// usage ratio >= ThresholdPercent/100.
	ThresholdPercent int

	// PreserveRecentMessages is the number of most-recent history
	// messages that are never dropped or summarized.
	PreserveRecentMessages int
}

// EffectiveBudget is the capacity remaining for input after reserving
// response tokens. Configurations where this is not positive are
// rejected before any assembly work.
func (b Budget) EffectiveBudget() int {
	return b.ModelCapacityTokens - b.ReservedForResponseTokens
}

// OverThreshold reports whether tokensUsed has reached the compression
// trigger. The comparison is inclusive and computed in integer
// arithmetic, so a context exactly at the threshold triggers.
func (b Budget) OverThreshold(tokensUsed int) bool {
	return tokensUsed*100 >= b.ThresholdPercent*b.EffectiveBudget()
}

// UsageRatio returns tokensUsed as a fraction of the effective budget.
func (b Budget) UsageRatio(tokensUsed int) float64 {
	eff := b.EffectiveBudget()
	if eff <= 0 {
		return 0
	}
	return float64(tokensUsed) / float64(eff)
}

// Classify returns the usage status for tokensUsed under this budget.
func (b Budget) Classify(tokensUsed int) Status {
	return Classify(tokensUsed, b.EffectiveBudget())
}
