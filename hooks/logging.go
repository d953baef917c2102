package hooks

import (
	"context"
	"log"

	"github.com/contextforge/contextforge/compress"
)

// LoggingHooks provides built-in logging hooks for observability
type LoggingHooks struct {
	logger *log.Logger
}

// NewLoggingHooks creates logging hooks with the provided logger
func NewLoggingHooks(logger *log.Logger) *LoggingHooks {
	return &LoggingHooks{logger: logger}
}

// DefaultLoggingHooks creates logging hooks with default logger
func DefaultLoggingHooks() *LoggingHooks {
	return &LoggingHooks{logger: log.Default()}
}

// Register attaches every logging hook to the registry
func (h *LoggingHooks) Register(r *Registry) {
	r.OnBeforeCompression(h.BeforeCompression)
	r.OnAfterCompression(h.AfterCompression)
	r.OnSummarizerFallback(h.SummarizerFallback)
	r.OnDegraded(h.Degraded)
}

// BeforeCompression logs the usage that triggered compression
func (h *LoggingHooks) BeforeCompression(ctx context.Context, totalTokens, effectiveBudget int) error {
	h.logger.Printf("[contextforge] Starting compression: %d tokens against a %d-token budget", totalTokens, effectiveBudget)
	return nil
}

// AfterCompression logs the outcome of a compression pass
func (h *LoggingHooks) AfterCompression(ctx context.Context, result *compress.Result) error {
	h.logger.Printf("[contextforge] Compression complete: %d tokens (%.1f%% of budget, %d messages removed, strategy: %s, status: %s)",
		result.TokensUsed, result.UsageRatio*100, result.DroppedCount, result.Strategy, result.Status)
	return nil
}

// SummarizerFallback logs a summarizer failure
func (h *LoggingHooks) SummarizerFallback(ctx context.Context, err error) error {
	h.logger.Printf("[contextforge] Summarizer unavailable, fell back to sliding window: %v", err)
	return nil
}

// Degraded logs a degraded truncation
func (h *LoggingHooks) Degraded(ctx context.Context, tokensUsed, effectiveBudget int) error {
	h.logger.Printf("[contextforge] Degraded: current message truncated to fit %d tokens into a %d-token budget", tokensUsed, effectiveBudget)
	return nil
}

// MetricsHooks collects metrics for monitoring
type MetricsHooks struct {
	OnMetric func(name string, value float64, tags map[string]string)
}

// NewMetricsHooks creates metrics collection hooks
func NewMetricsHooks(onMetric func(string, float64, map[string]string)) *MetricsHooks {
	return &MetricsHooks{OnMetric: onMetric}
}

// Register attaches every metrics hook to the registry
func (h *MetricsHooks) Register(r *Registry) {
	r.OnAfterCompression(h.AfterCompression)
	r.OnDegraded(h.Degraded)
}

// AfterCompression records compression metrics
func (h *MetricsHooks) AfterCompression(ctx context.Context, result *compress.Result) error {
	tags := map[string]string{"strategy": string(result.Strategy), "status": string(result.Status)}

	h.OnMetric("context.tokens.used", float64(result.TokensUsed), tags)
	h.OnMetric("context.usage_ratio", result.UsageRatio, tags)
	h.OnMetric("context.messages.dropped", float64(result.DroppedCount), tags)
	if result.SummarizerFellBack {
		h.OnMetric("context.summarizer.fallback", 1, tags)
	}
	return nil
}

// Degraded records degraded truncations
func (h *MetricsHooks) Degraded(ctx context.Context, tokensUsed, effectiveBudget int) error {
	h.OnMetric("context.degraded", 1, nil)
	return nil
}
