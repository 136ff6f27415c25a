package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/model"
)

const classificationTemperature = 0.1

// Classifier is the category oracle: it asks an LLM which category a
// description belongs to, steered by the user's training hints.
type Classifier struct {
	client      Client
	cache       *predictionCache
	rateLimiter *rateLimiter
	logger      *slog.Logger
	retryOpts   common.RetryOptions
}

// NewClassifier creates a classifier backed by the provider in cfg.
func NewClassifier(cfg Config, logger *slog.Logger) (*Classifier, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewClassifierWithClient(client, cfg, logger), nil
}

// NewClassifierWithClient wraps an existing client. Only the call policy
// fields of cfg are used.
func NewClassifierWithClient(client Client, cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries + 1,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Classifier{
		client:      client,
		cache:       newPredictionCache(cfg.CacheTTL),
		logger:      logger,
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}
}

// PredictCategory suggests a category for description. An answer outside the
// enumeration yields CategoryOthers with Fallback set. Transport failures
// return an error wrapping common.ErrClassificationFailed.
func (c *Classifier) PredictCategory(ctx context.Context, description string, hints []model.TrainingExample) (model.Prediction, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.Prediction{}, fmt.Errorf("%w: %w", common.ErrClassificationFailed, model.ErrEmptyDescription)
	}

	key := predictionKey(description, hints)
	if p, found := c.cache.get(key); found {
		c.logger.Debug("cache hit for description", "description", description)
		return p, nil
	}

	req := Request{
		System:      classifierSystemPrompt,
		Prompt:      buildCategoryPrompt(description, hints),
		Temperature: classificationTemperature,
		MaxTokens:   32,
	}

	var resp Response
	err := common.WithRetry(ctx, func() error {
		if err := c.rateLimiter.wait(ctx); err != nil {
			return err
		}
		var callErr error
		resp, callErr = c.client.Complete(ctx, req)
		return callErr
	}, c.retryOpts)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %w", common.ErrClassificationFailed, err)
	}

	prediction := parseCategory(resp.Text)
	c.cache.set(key, prediction)

	if prediction.Fallback {
		c.logger.Warn("model answered outside the category list",
			"description", description,
			"answer", prediction.Raw)
	}
	c.logger.Info("expense classified",
		"description", description,
		"category", prediction.Category,
		"hints", len(hints))

	return prediction, nil
}

// Close stops background goroutines.
func (c *Classifier) Close() {
	c.cache.Close()
}
