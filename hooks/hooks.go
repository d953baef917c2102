package hooks

import (
	"context"
	"sync"

	"github.com/contextforge/contextforge/compress"
)

// BeforeCompressionHook is called when assembled usage crosses the
// threshold, before a strategy runs
type BeforeCompressionHook func(ctx context.Context, totalTokens, effectiveBudget int) error

// AfterCompressionHook is called after a compression pass completes
type AfterCompressionHook func(ctx context.Context, result *compress.Result) error

// SummarizerFallbackHook is called when the summarizer fails and the
// sliding window is substituted
type SummarizerFallbackHook func(ctx context.Context, err error) error

// DegradedHook is called when the budget could not be met without
// truncating the current message
type DegradedHook func(ctx context.Context, tokensUsed, effectiveBudget int) error

// Registry holds all registered hooks
type Registry struct {
	mu                 sync.RWMutex
	beforeCompression  []BeforeCompressionHook
	afterCompression   []AfterCompressionHook
	summarizerFallback []SummarizerFallbackHook
	degraded           []DegradedHook
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{
		beforeCompression:  []BeforeCompressionHook{},
		afterCompression:   []AfterCompressionHook{},
		summarizerFallback: []SummarizerFallbackHook{},
		degraded:           []DegradedHook{},
	}
}

// OnBeforeCompression registers a hook to be called before compression
func (r *Registry) OnBeforeCompression(hook BeforeCompressionHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeCompression = append(r.beforeCompression, hook)
}

// OnAfterCompression registers a hook to be called after compression
func (r *Registry) OnAfterCompression(hook AfterCompressionHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterCompression = append(r.afterCompression, hook)
}

// OnSummarizerFallback registers a hook to be called on summarizer fallback
func (r *Registry) OnSummarizerFallback(hook SummarizerFallbackHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summarizerFallback = append(r.summarizerFallback, hook)
}

// OnDegraded registers a hook to be called on degraded truncation
func (r *Registry) OnDegraded(hook DegradedHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded = append(r.degraded, hook)
}

// TriggerBeforeCompression calls all registered before-compression hooks
func (r *Registry) TriggerBeforeCompression(ctx context.Context, totalTokens, effectiveBudget int) error {
	r.mu.RLock()
	hooks := make([]BeforeCompressionHook, len(r.beforeCompression))
	copy(hooks, r.beforeCompression)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, totalTokens, effectiveBudget); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterCompression calls all registered after-compression hooks
func (r *Registry) TriggerAfterCompression(ctx context.Context, result *compress.Result) error {
	r.mu.RLock()
	hooks := make([]AfterCompressionHook, len(r.afterCompression))
	copy(hooks, r.afterCompression)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, result); err != nil {
			return err
		}
	}
	return nil
}

// TriggerSummarizerFallback calls all registered fallback hooks
func (r *Registry) TriggerSummarizerFallback(ctx context.Context, err error) error {
	r.mu.RLock()
	hooks := make([]SummarizerFallbackHook, len(r.summarizerFallback))
	copy(hooks, r.summarizerFallback)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if hookErr := hook(ctx, err); hookErr != nil {
			return hookErr
		}
	}
	return nil
}

// TriggerDegraded calls all registered degraded hooks
func (r *Registry) TriggerDegraded(ctx context.Context, tokensUsed, effectiveBudget int) error {
	r.mu.RLock()
	hooks := make([]DegradedHook, len(r.degraded))
	copy(hooks, r.degraded)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, tokensUsed, effectiveBudget); err != nil {
			return err
		}
	}
	return nil
}
