package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/model"
)

// InsightGenerator is the insight oracle.
type InsightGenerator struct {
	client      Client
	rateLimiter *rateLimiter
	logger      *slog.Logger
}

// NewInsightGenerator creates a generator backed by the provider in cfg.
func NewInsightGenerator(cfg Config, logger *slog.Logger) (*InsightGenerator, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewInsightGeneratorWithClient(client, cfg, logger), nil
}

// NewInsightGeneratorWithClient wraps an existing client.
func NewInsightGeneratorWithClient(client Client, cfg Config, logger *slog.Logger) *InsightGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightGenerator{
		client:      client,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      logger,
	}
}

// GenerateInsights summarizes expenses. It refuses an empty list with
// common.ErrNoExpenses. Transport failures wrap common.ErrInsightFailed; an
// answer that cannot be parsed yields model.FallbackInsight without error.
func (g *InsightGenerator) GenerateInsights(ctx context.Context, expenses []model.Expense, currency model.Currency) (model.Insight, error) {
	if len(expenses) == 0 {
		return model.Insight{}, common.ErrNoExpenses
	}

	if err := g.rateLimiter.wait(ctx); err != nil {
		return model.Insight{}, fmt.Errorf("%w: %w", common.ErrInsightFailed, err)
	}

	resp, err := g.client.Complete(ctx, Request{
		System: insightSystemPrompt,
		Prompt: buildInsightPrompt(expenses, currency),
		JSON:   true,
	})
	if err != nil {
		return model.Insight{}, fmt.Errorf("%w: %w", common.ErrInsightFailed, err)
	}

	insight, err := parseInsight(resp.Text)
	if err != nil {
		g.logger.Warn("unusable insight response, using fallback",
			"error", err,
			"expenses", len(expenses))
		return model.FallbackInsight(), nil
	}

	g.logger.Info("insights generated",
		"expenses", len(expenses),
		"suggestions", len(insight.Suggestions))

	return insight, nil
}
