package contextforge

import (
	"fmt"
	"time"

	"github.com/contextforge/contextforge/compress"
	"github.com/contextforge/contextforge/segment"
)

// ModelInfo contains model-specific parameters
type ModelInfo struct {
	MaxContextTokens int
	DefaultMaxTokens int
}

// KnownModels maps model IDs to their capabilities
var KnownModels = map[string]ModelInfo{
	// Claude 4 models
	"claude-sonnet-4-5-20250929": {MaxContextTokens: 200000, DefaultMaxTokens: 16384},
	"claude-opus-4-5-20251101":   {MaxContextTokens: 200000, DefaultMaxTokens: 16384},
	// Claude 3.5 models
	"claude-3-5-sonnet-20241022": {MaxContextTokens: 200000, DefaultMaxTokens: 8192},
	"claude-3-5-haiku-20241022":  {MaxContextTokens: 200000, DefaultMaxTokens: 8192},
	// Claude 3 models
	"claude-3-opus-20240229":   {MaxContextTokens: 200000, DefaultMaxTokens: 4096},
	"claude-3-sonnet-20240229": {MaxContextTokens: 200000, DefaultMaxTokens: 4096},
	"claude-3-haiku-20240307":  {MaxContextTokens: 200000, DefaultMaxTokens: 4096},
}

// GetModelInfo returns model info, using sensible defaults for unknown models
func GetModelInfo(model string) ModelInfo {
	if info, ok := KnownModels[model]; ok {
		return info
	}
	// Sensible defaults for unknown models
	return ModelInfo{MaxContextTokens: 200000, DefaultMaxTokens: 8192}
}

// Default configuration values
const (
	// DefaultThresholdPercent triggers compression at 80% of the
	// effective budget
	DefaultThresholdPercent = 80

	// DefaultPreserveRecentMessages keeps the 10 most recent history
	// messages out of every compression pass
	DefaultPreserveRecentMessages = 10

	// DefaultSummaryMaxTokens caps summarizer output
	DefaultSummaryMaxTokens = 512

	// DefaultSummarizerTimeout bounds each summarizer call
	DefaultSummarizerTimeout = 30 * time.Second

	// DefaultStrategy is the phased hybrid strategy
	DefaultStrategy = compress.StrategyHybrid
)

// Config holds the configuration for a Builder.
//
// Example:
//
//	builder, _ := contextforge.New(contextforge.DefaultConfig("claude-sonnet-4-5-20250929"))
//	result, _ := builder.Build(ctx, contextforge.Request{
//	    SystemPrompt:   "You are a helpful assistant",
//	    CurrentMessage: "What did we decide yesterday?",
//	})
type Config struct {
	// Enabled turns compression on. When false the assembled context is
	// returned as-is even when it exceeds the budget; only a context
	// larger than the model capacity itself is truncated. The zero
	// value is false; use DefaultConfig for the recommended defaults.
	Enabled bool

	// Model selects the default capacity from KnownModels. A Request
	// may override the capacity per call.
	Model string

	// Strategy is the compression strategy. Defaults to StrategyHybrid.
	Strategy compress.Strategy

	// ThresholdPercent is the usage percentage of the effective budget
	// at which compression triggers, in (0, 100]. Defaults to 80.
	ThresholdPercent int

	// PreserveRecentMessages is the number of most recent history
	// messages no strategy may remove or summarize. Zero is valid and
	// means no protection.
	PreserveRecentMessages int

	// ReservedForResponseTokens is subtracted from the model capacity
	// before any budget math. Zero is valid.
	ReservedForResponseTokens int

	// SummaryMaxTokens caps the summarizer's output length.
	SummaryMaxTokens int

	// SummarizerTimeout bounds each summarizer call. On expiry the
	// sliding window substitutes for the summarizer.
	SummarizerTimeout time.Duration

	// EstimatorMultiplier scales the heuristic token estimate for
	// token-dense languages. Non-positive means 1.0.
	EstimatorMultiplier float64

	// ValueWeights tunes history value scoring. The zero value selects
	// the default weights.
	ValueWeights segment.Weights
}

// DefaultConfig returns the recommended configuration for a model, with
// compression enabled and the response reservation taken from the
// model's default output allowance.
func DefaultConfig(model string) Config {
	info := GetModelInfo(model)
	return Config{
		Enabled:                   true,
		Model:                     model,
		Strategy:                  DefaultStrategy,
		ThresholdPercent:          DefaultThresholdPercent,
		PreserveRecentMessages:    DefaultPreserveRecentMessages,
		ReservedForResponseTokens: info.DefaultMaxTokens,
		SummaryMaxTokens:          DefaultSummaryMaxTokens,
		SummarizerTimeout:         DefaultSummarizerTimeout,
		EstimatorMultiplier:       1.0,
	}
}

// ApplyDefaults fills unset fields that have no meaningful zero value.
// PreserveRecentMessages and ReservedForResponseTokens are left alone
// because zero is a deliberate setting for both; use DefaultConfig to
// get the recommended values.
func (c *Config) ApplyDefaults() {
	if c.Strategy == "" {
		c.Strategy = DefaultStrategy
	}
	if c.ThresholdPercent == 0 {
		c.ThresholdPercent = DefaultThresholdPercent
	}
	if c.SummaryMaxTokens == 0 {
		c.SummaryMaxTokens = DefaultSummaryMaxTokens
	}
	if c.SummarizerTimeout == 0 {
		c.SummarizerTimeout = DefaultSummarizerTimeout
	}
	if c.EstimatorMultiplier <= 0 {
		c.EstimatorMultiplier = 1.0
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.ThresholdPercent <= 0 || c.ThresholdPercent > 100 {
		return fmt.Errorf("%w: ThresholdPercent must be in (0, 100], got %d", ErrInvalidConfig, c.ThresholdPercent)
	}

	if c.PreserveRecentMessages < 0 {
		return fmt.Errorf("%w: PreserveRecentMessages must not be negative, got %d", ErrInvalidConfig, c.PreserveRecentMessages)
	}

	if c.ReservedForResponseTokens < 0 {
		return fmt.Errorf("%w: ReservedForResponseTokens must not be negative, got %d", ErrInvalidConfig, c.ReservedForResponseTokens)
	}

	if c.SummaryMaxTokens <= 0 {
		return fmt.Errorf("%w: SummaryMaxTokens must be positive, got %d", ErrInvalidConfig, c.SummaryMaxTokens)
	}

	if c.SummarizerTimeout < 0 {
		return fmt.Errorf("%w: SummarizerTimeout must not be negative, got %v", ErrInvalidConfig, c.SummarizerTimeout)
	}

	switch c.Strategy {
	case compress.StrategySlidingWindow, compress.StrategyDropLowValue,
		compress.StrategySummarize, compress.StrategyHybrid:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.Strategy)
	}

	return nil
}

// budget derives the segment budget for one build against the given
// model capacity.
func (c *Config) budget(capacity int) segment.Budget {
	return segment.Budget{
		ModelCapacityTokens:       capacity,
		ReservedForResponseTokens: c.ReservedForResponseTokens,
		ThresholdPercent:          c.ThresholdPercent,
		PreserveRecentMessages:    c.PreserveRecentMessages,
	}
}
