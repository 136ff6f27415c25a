package tracker

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsmart/internal/model"
)

// ErrStalePrediction means a newer prediction was requested, or the draft
// changed, while this one was in flight. Its result was discarded.
var ErrStalePrediction = errors.New("prediction superseded by a newer request")

// Draft is an expense being composed. Predictions run without holding the
// lock; each carries a sequence number and only the latest may apply.
type Draft struct {
	tracker     *Tracker
	amount      decimal.Decimal
	description string
	category    model.Category
	seq         uint64
	mu          sync.Mutex
}

// SetDescription changes the description. A real change invalidates any
// prediction in flight.
func (d *Draft) SetDescription(description string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if description != d.description {
		d.description = description
		d.seq++
	}
}

// SetAmount sets the amount.
func (d *Draft) SetAmount(amount decimal.Decimal) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.amount = amount
}

// SetCategory records the user's own choice. It outranks predictions still in flight.
func (d *Draft) SetCategory(category model.Category) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.category = category
	d.seq++
}

// Description returns the current description.
func (d *Draft) Description() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.description
}

// Amount returns the current amount.
func (d *Draft) Amount() decimal.Decimal {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.amount
}

// Category returns the current category.
func (d *Draft) Category() model.Category {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.category
}

// Predict asks the category oracle about the current description. The result
// is applied only if no newer request was issued in the meantime; otherwise
// ErrStalePrediction is returned along with the discarded prediction. On
// failure the category is left as it was.
func (d *Draft) Predict(ctx context.Context) (model.Prediction, error) {
	d.mu.Lock()
	description := strings.TrimSpace(d.description)
	if description == "" {
		d.mu.Unlock()
		return model.Prediction{}, model.ErrEmptyDescription
	}
	d.seq++
	ticket := d.seq
	d.mu.Unlock()

	prediction, err := d.tracker.Predict(ctx, description)

	d.mu.Lock()
	defer d.mu.Unlock()

	if ticket != d.seq {
		d.tracker.logger.Debug("discarding stale prediction",
			"description", description,
			"ticket", ticket,
			"latest", d.seq)
		return prediction, ErrStalePrediction
	}
	if err != nil {
		return model.Prediction{}, err
	}

	d.category = prediction.Category
	return prediction, nil
}

// Submit validates the draft, adds it to the ledger as an AI suggested
// expense and resets the draft.
func (d *Draft) Submit(ctx context.Context) (model.Expense, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	description := strings.TrimSpace(d.description)
	if err := model.ValidateExpenseInput(description, d.amount); err != nil {
		return model.Expense{}, err
	}

	expense := d.tracker.ledger.Add(ctx, description, d.amount, d.category, true)

	d.description = ""
	d.amount = decimal.Zero
	d.category = model.CategoryOthers
	d.seq++

	return expense, nil
}
