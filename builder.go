package contextforge

import (
	"context"
	"log"

	"github.com/contextforge/contextforge/assemble"
	"github.com/contextforge/contextforge/compress"
	"github.com/contextforge/contextforge/driver"
	"github.com/contextforge/contextforge/hooks"
	"github.com/contextforge/contextforge/segment"
	"github.com/contextforge/contextforge/summarize"
	"github.com/contextforge/contextforge/token"
)

// Request carries the content sources for one build.
type Request struct {
	// SystemPrompt always survives compression verbatim.
	SystemPrompt string

	// Knowledge is the retrieved snippets in relevance order. The order
	// is taken as given and never re-ranked.
	Knowledge []driver.KnowledgeItem

	// History is the prior conversation turns in chronological order.
	History []driver.Turn

	// CurrentMessage is the message being responded to. Its content is
	// only ever touched in the terminal degraded case.
	CurrentMessage string

	// ModelCapacityTokens overrides the capacity derived from the
	// configured model for this build. Zero means use the model's.
	ModelCapacityTokens int
}

// Builder assembles bounded contexts. It is immutable after New and
// safe for concurrent use across any number of conversations.
type Builder struct {
	cfg        Config
	estimator  token.Estimator
	summarizer summarize.Summarizer
	hooks      *hooks.Registry
	logger     *log.Logger
	store      driver.Store
	normalize  func(string) string

	assembler *assemble.Assembler
	engine    *compress.Engine
}

// New creates a Builder. The configuration is validated up front;
// nothing is deferred to Build.
func New(cfg Config, opts ...Option) (*Builder, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, NewBuildError("New", err)
	}

	b := &Builder{
		cfg:    cfg,
		logger: log.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	if b.estimator == nil {
		b.estimator = token.NewHeuristic(cfg.EstimatorMultiplier)
	}
	scorer := segment.NewScorer(cfg.ValueWeights)
	b.assembler = assemble.New(b.estimator, scorer, b.normalize)
	b.engine = compress.NewEngine(b.estimator, b.summarizer, cfg.SummarizerTimeout, cfg.SummaryMaxTokens, b.logger)
	return b, nil
}

// Build assembles the candidate context for req and compresses it if
// usage crosses the threshold. It always returns a usable context when
// the budget itself is sound: summarizer failures fall back, and an
// unsatisfiable budget degrades to truncation rather than erroring.
func (b *Builder) Build(ctx context.Context, req Request) (*compress.Result, error) {
	capacity := req.ModelCapacityTokens
	if capacity == 0 {
		capacity = GetModelInfo(b.cfg.Model).MaxContextTokens
	}
	budget := b.cfg.budget(capacity)
	if budget.EffectiveBudget() <= 0 {
		return nil, NewBuildError("Build", ErrBudgetExhausted).
			WithContext("model_capacity_tokens", capacity).
			WithContext("reserved_for_response_tokens", b.cfg.ReservedForResponseTokens)
	}

	segs, total := b.assembler.Assemble(assemble.Input{
		SystemPrompt:   req.SystemPrompt,
		Knowledge:      req.Knowledge,
		History:        req.History,
		CurrentMessage: req.CurrentMessage,
	})

	if !b.cfg.Enabled {
		// Disabled means hands off: the raw context goes out even over
		// budget. Only a context the model cannot accept at all is cut.
		if total > capacity {
			b.logger.Printf("[contextforge] compression disabled but context (%d tokens) exceeds model capacity (%d), truncating", total, capacity)
			return b.engine.FitToCapacity(segs, segment.Budget{
				ModelCapacityTokens: capacity,
				ThresholdPercent:    b.cfg.ThresholdPercent,
			}), nil
		}
		return compress.Uncompressed(segs, budget), nil
	}

	if !budget.OverThreshold(total) {
		return compress.Uncompressed(segs, budget), nil
	}

	if b.hooks != nil {
		b.hookErr(b.hooks.TriggerBeforeCompression(ctx, total, budget.EffectiveBudget()))
	}
	res := b.engine.Compress(ctx, segs, budget, b.cfg.Strategy)
	if b.hooks != nil {
		if res.SummarizerFellBack {
			b.hookErr(b.hooks.TriggerSummarizerFallback(ctx, ErrSummarizerUnavailable))
		}
		if res.Degraded {
			b.hookErr(b.hooks.TriggerDegraded(ctx, res.TokensUsed, budget.EffectiveBudget()))
		}
		b.hookErr(b.hooks.TriggerAfterCompression(ctx, res))
	}
	return res, nil
}

// hookErr logs a hook failure. Hooks observe, they never veto: a
// failing hook must not prevent returning a usable context.
func (b *Builder) hookErr(err error) {
	if err != nil {
		b.logger.Printf("[contextforge] hook failed: %v", err)
	}
}

// BuildForModel builds against the named model's context window,
// overriding the configured model for this call.
func (b *Builder) BuildForModel(ctx context.Context, model string, req Request) (*compress.Result, error) {
	req.ModelCapacityTokens = GetModelInfo(model).MaxContextTokens
	return b.Build(ctx, req)
}

// BuildFromStore loads the session's history from the configured store
// and builds with it. req.History is ignored.
func (b *Builder) BuildFromStore(ctx context.Context, sessionID string, req Request) (*compress.Result, error) {
	if b.store == nil {
		return nil, NewBuildError("BuildFromStore", ErrInvalidConfig).
			WithContext("reason", "no store configured")
	}
	turns, err := b.store.GetTurns(ctx, sessionID)
	if err != nil {
		return nil, NewBuildError("BuildFromStore", ErrStorageError).
			WithContext("session_id", sessionID).
			WithContext("cause", err.Error())
	}
	req.History = turns
	return b.Build(ctx, req)
}
