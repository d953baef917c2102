package contextforge

import (
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/contextforge/contextforge/driver"
	"github.com/contextforge/contextforge/hooks"
	"github.com/contextforge/contextforge/internal/mdtext"
	"github.com/contextforge/contextforge/summarize"
	"github.com/contextforge/contextforge/token"
)

// Option is a functional option for configuring a Builder
type Option func(*Builder) error

// WithEstimator replaces the default heuristic token estimator, e.g.
// with token.Exact for a model-family tokenizer
func WithEstimator(e token.Estimator) Option {
	return func(b *Builder) error {
		if e == nil {
			return NewBuildError("WithEstimator", ErrInvalidConfig).
				WithContext("reason", "estimator is nil")
		}
		b.estimator = e
		return nil
	}
}

// WithSummarizer sets the summarizer used by the Summarize and Hybrid
// strategies. Without one those strategies fall back to the sliding
// window.
func WithSummarizer(s summarize.Summarizer) Option {
	return func(b *Builder) error {
		b.summarizer = s
		return nil
	}
}

// WithAnthropicSummarizer summarizes through the Anthropic API with the
// given client and model
func WithAnthropicSummarizer(client *anthropic.Client, model string) Option {
	return func(b *Builder) error {
		if client == nil {
			return NewBuildError("WithAnthropicSummarizer", ErrInvalidConfig).
				WithContext("reason", "client is nil")
		}
		b.summarizer = summarize.NewAnthropic(client, model)
		return nil
	}
}

// WithHooks attaches a hook registry for observability
func WithHooks(r *hooks.Registry) Option {
	return func(b *Builder) error {
		b.hooks = r
		return nil
	}
}

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			return NewBuildError("WithLogger", ErrInvalidConfig).
				WithContext("reason", "logger is nil")
		}
		b.logger = logger
		return nil
	}
}

// WithStore sets the conversation store used by BuildFromStore
func WithStore(s driver.Store) Option {
	return func(b *Builder) error {
		b.store = s
		return nil
	}
}

// WithKnowledgeNormalizer preprocesses knowledge content before token
// estimation
func WithKnowledgeNormalizer(f func(string) string) Option {
	return func(b *Builder) error {
		b.normalize = f
		return nil
	}
}

// WithMarkdownKnowledge renders markdown knowledge to plain text before
// estimation, so formatting syntax does not inflate token counts
func WithMarkdownKnowledge() Option {
	return func(b *Builder) error {
		b.normalize = mdtext.ToText
		return nil
	}
}
