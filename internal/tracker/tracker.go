// Package tracker wires the ledger, the training set and the preferences to a
// repository and the oracles. It is what a presentation layer talks to.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/ledger"
	"github.com/Veraticus/spendsmart/internal/model"
	"github.com/Veraticus/spendsmart/internal/settings"
	"github.com/Veraticus/spendsmart/internal/storage"
	"github.com/Veraticus/spendsmart/internal/training"
)

// ErrNoOracle is returned when an operation needs an oracle that was not configured.
var ErrNoOracle = errors.New("no oracle configured")

// CategoryOracle predicts a category for a description.
type CategoryOracle interface {
	PredictCategory(ctx context.Context, description string, hints []model.TrainingExample) (model.Prediction, error)
}

// InsightOracle summarizes spending.
type InsightOracle interface {
	GenerateInsights(ctx context.Context, expenses []model.Expense, currency model.Currency) (model.Insight, error)
}

// Repository loads every document once and saves each after it changes.
type Repository interface {
	LoadAll(ctx context.Context) (storage.Snapshot, error)
	ledger.Saver
	training.Saver
	settings.Saver
}

// Tracker is the loaded application state.
type Tracker struct {
	ledger     *ledger.Ledger
	training   *training.Set
	prefs      *settings.Preferences
	categories CategoryOracle
	insights   InsightOracle
	logger     *slog.Logger
}

type options struct {
	categories CategoryOracle
	insights   InsightOracle
	logger     *slog.Logger
	ledgerOpts []ledger.Option
}

// Option configures Open.
type Option func(*options)

// WithCategoryOracle sets the oracle used by drafts and Predict.
func WithCategoryOracle(o CategoryOracle) Option {
	return func(opts *options) { opts.categories = o }
}

// WithInsightOracle sets the oracle used by Insights.
func WithInsightOracle(o InsightOracle) Option {
	return func(opts *options) { opts.insights = o }
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) { opts.logger = logger }
}

// WithLedgerOptions passes options through to the ledger.
func WithLedgerOptions(ledgerOpts ...ledger.Option) Option {
	return func(opts *options) { opts.ledgerOpts = append(opts.ledgerOpts, ledgerOpts...) }
}

// Open loads all persisted documents and builds the components. Nothing is
// mutated before loading completes.
func Open(ctx context.Context, repo Repository, opts ...Option) (*Tracker, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	snap, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved data: %w", err)
	}

	set := training.New(repo, o.logger, snap.Training)
	ledgerOpts := append([]ledger.Option{ledger.WithLogger(o.logger)}, o.ledgerOpts...)

	t := &Tracker{
		training:   set,
		ledger:     ledger.New(repo, set, snap.Expenses, ledgerOpts...),
		prefs:      settings.New(repo, o.logger, snap.Palette, snap.Currency),
		categories: o.categories,
		insights:   o.insights,
		logger:     o.logger,
	}

	o.logger.Debug("tracker opened",
		"expenses", t.ledger.Len(),
		"training", t.training.Len(),
		"currency", t.prefs.Currency().Code)

	return t, nil
}

// Ledger returns the expense ledger.
func (t *Tracker) Ledger() *ledger.Ledger { return t.ledger }

// Training returns the training set.
func (t *Tracker) Training() *training.Set { return t.training }

// Preferences returns the display preferences.
func (t *Tracker) Preferences() *settings.Preferences { return t.prefs }

// Predict asks the category oracle about description using the current hints.
func (t *Tracker) Predict(ctx context.Context, description string) (model.Prediction, error) {
	if t.categories == nil {
		return model.Prediction{}, ErrNoOracle
	}
	return t.categories.PredictCategory(ctx, description, t.training.Snapshot())
}

// Insights summarizes the whole ledger in the selected currency.
func (t *Tracker) Insights(ctx context.Context) (model.Insight, error) {
	expenses := t.ledger.Snapshot()
	if len(expenses) == 0 {
		return model.Insight{}, common.ErrNoExpenses
	}
	if t.insights == nil {
		return model.Insight{}, ErrNoOracle
	}
	return t.insights.GenerateInsights(ctx, expenses, t.prefs.Currency())
}

// SaveErr reports failures of the most recent saves.
func (t *Tracker) SaveErr() error {
	return errors.Join(t.ledger.SaveErr(), t.training.SaveErr())
}

// NewDraft starts composing an expense.
func (t *Tracker) NewDraft() *Draft {
	return &Draft{tracker: t, category: model.CategoryOthers}
}
