// Package ledger owns the ordered collection of expenses and enforces the
// rules by which AI suggested categories are confirmed or corrected.
package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/model"
)

// Saver persists the whole expense list after every mutation.
type Saver interface {
	SaveExpenses(ctx context.Context, expenses []model.Expense) error
}

// Trainer receives corrections and confirmations derived from user feedback.
type Trainer interface {
	Upsert(ctx context.Context, description string, category model.Category)
	Has(description string) bool
}

// Ledger is the ordered sequence of all expenses. Operations never fail:
// unknown ids are no-ops and input is trusted. Every mutation is followed by
// a synchronous save of the full snapshot; a failed save keeps the in-memory
// change and is reported through SaveErr.
type Ledger struct {
	saver    Saver
	trainer  Trainer
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	saveErr  error
	expenses []model.Expense
	mu       sync.RWMutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the clock used to date new expenses.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides expense id generation.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// New creates a ledger hydrated with persisted expenses.
func New(saver Saver, trainer Trainer, persisted []model.Expense, opts ...Option) *Ledger {
	l := &Ledger{
		saver:    saver,
		trainer:  trainer,
		logger:   slog.Default(),
		now:      time.Now,
		newID:    uuid.NewString,
		expenses: make([]model.Expense, len(persisted)),
	}
	copy(l.expenses, persisted)

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Add appends a new expense dated today.
func (l *Ledger) Add(ctx context.Context, description string, amount decimal.Decimal, category model.Category, isAIGenerated bool) model.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()

	expense := model.Expense{
		ID:            l.newID(),
		Amount:        amount,
		Description:   description,
		Category:      category,
		Date:          model.Today(l.now()),
		IsAIGenerated: isAIGenerated,
	}
	l.expenses = append(l.expenses, expense)

	l.logger.Debug("expense added",
		"expense_id", expense.ID,
		"category", expense.Category,
		"ai_generated", isAIGenerated)

	l.persistLocked(ctx)
	return expense
}

// Delete removes the expense with id. It reports whether anything was removed.
func (l *Ledger) Delete(ctx context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return false
	}

	l.expenses = append(l.expenses[:i], l.expenses[i+1:]...)
	l.logger.Debug("expense deleted", "expense_id", id)

	l.persistLocked(ctx)
	return true
}

// Recategorize changes an expense's category and teaches the trainer the
// correction. Setting the category it already has, or one outside the
// enumeration, is a no-op.
func (l *Ledger) Recategorize(ctx context.Context, id string, category model.Category) bool {
	if !category.Valid() {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 || l.expenses[i].Category == category {
		return false
	}

	e := &l.expenses[i]
	previous := e.Category
	e.Category = category
	e.UserCorrected = true
	e.FeedbackStatus = model.FeedbackUnset

	if l.trainer != nil {
		l.trainer.Upsert(ctx, e.Description, category)
	}

	l.logger.Info("expense recategorized",
		"expense_id", id,
		"from", previous,
		"to", category)

	l.persistLocked(ctx)
	return true
}

// RecordFeedback stores a judgment on the AI suggested category.
// A positive judgment confirms the category as a training hint unless a hint
// for the description already exists; corrections outrank confirmations.
// A negative judgment only flags the expense.
func (l *Ledger) RecordFeedback(ctx context.Context, id string, judgment model.FeedbackStatus) bool {
	if judgment != model.FeedbackPositive && judgment != model.FeedbackNegative {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return false
	}

	e := &l.expenses[i]
	e.FeedbackStatus = judgment

	if judgment == model.FeedbackPositive {
		e.UserCorrected = true
		if l.trainer != nil && !l.trainer.Has(e.Description) {
			l.trainer.Upsert(ctx, e.Description, e.Category)
		}
	}

	l.logger.Info("feedback recorded",
		"expense_id", id,
		"judgment", judgment,
		"category", e.Category)

	l.persistLocked(ctx)
	return true
}

// Get returns the expense with id.
func (l *Ledger) Get(id string) (model.Expense, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexLocked(id); i >= 0 {
		return l.expenses[i], true
	}
	return model.Expense{}, false
}

// Snapshot returns the expenses in creation order.
func (l *Ledger) Snapshot() []model.Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

// Len returns the number of expenses.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.expenses)
}

// SaveErr returns the error from the most recent save, if any.
func (l *Ledger) SaveErr() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.saveErr
}

func (l *Ledger) indexLocked(id string) int {
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) snapshotLocked() []model.Expense {
	out := make([]model.Expense, len(l.expenses))
	copy(out, l.expenses)
	return out
}

func (l *Ledger) persistLocked(ctx context.Context) {
	if l.saver == nil {
		return
	}

	l.saveErr = l.saver.SaveExpenses(ctx, l.snapshotLocked())
	if l.saveErr != nil {
		common.LogError(l.logger, l.saveErr, "failed to persist expenses", common.Fields{
			"expenses": len(l.expenses),
		})
	}
}
