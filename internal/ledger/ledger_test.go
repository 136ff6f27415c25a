package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendsmart/internal/model"
	"github.com/Veraticus/spendsmart/internal/training"
)

type recordingSaver struct {
	err   error
	saves [][]model.Expense
}

func (r *recordingSaver) SaveExpenses(_ context.Context, expenses []model.Expense) error {
	r.saves = append(r.saves, expenses)
	return r.err
}

var fixedNow = time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

func newTestLedger(t *testing.T) (*Ledger, *training.Set, *recordingSaver) {
	t.Helper()

	saver := &recordingSaver{}
	set := training.New(nil, nil, nil)
	seq := 0
	l := New(saver, set, nil,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("exp-%d", seq)
		}),
	)
	return l, set, saver
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLedger_Add(t *testing.T) {
	l, _, saver := newTestLedger(t)
	ctx := context.Background()

	e := l.Add(ctx, "Coffee", amount("4.50"), model.CategoryFoodDining, true)

	assert.Equal(t, "exp-1", e.ID)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), e.Date)
	assert.True(t, e.IsAIGenerated)
	assert.False(t, e.UserCorrected)
	assert.Equal(t, model.FeedbackUnset, e.FeedbackStatus)

	require.Len(t, saver.saves, 1)
	assert.Equal(t, []model.Expense{e}, saver.saves[0])
}

func TestLedger_AddPreservesCreationOrder(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	l.Add(ctx, "A", amount("1"), model.CategoryOthers, true)
	l.Add(ctx, "B", amount("2"), model.CategoryOthers, true)
	l.Add(ctx, "C", amount("3"), model.CategoryOthers, true)
	require.True(t, l.Delete(ctx, "exp-2"))
	l.Add(ctx, "D", amount("4"), model.CategoryOthers, true)

	var got []string
	for _, e := range l.Snapshot() {
		got = append(got, e.Description)
	}
	assert.Equal(t, []string{"A", "C", "D"}, got)
}

func TestLedger_DeleteUnknownIsNoop(t *testing.T) {
	l, _, saver := newTestLedger(t)
	ctx := context.Background()

	l.Add(ctx, "Coffee", amount("4.50"), model.CategoryFoodDining, true)
	assert.False(t, l.Delete(ctx, "missing"))

	assert.Equal(t, 1, l.Len())
	assert.Len(t, saver.saves, 1, "no save for a no-op delete")
}

func TestLedger_LengthEqualsAddsMinusDeletes(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	ids := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		ids = append(ids, l.Add(ctx, fmt.Sprintf("item %d", i), amount("1"), model.CategoryOthers, true).ID)
	}

	deleted := 0
	for i, id := range ids {
		if i%3 == 0 && l.Delete(ctx, id) {
			deleted++
		}
	}
	// Deleting twice is idempotent.
	assert.False(t, l.Delete(ctx, ids[0]))

	assert.Equal(t, 10-deleted, l.Len())
}

func TestLedger_RecategorizeToSameCategoryIsNoop(t *testing.T) {
	l, set, saver := newTestLedger(t)
	ctx := context.Background()

	e := l.Add(ctx, "Coffee", amount("4.50"), model.CategoryFoodDining, true)
	require.True(t, l.RecordFeedback(ctx, e.ID, model.FeedbackNegative))
	savesBefore := len(saver.saves)

	assert.False(t, l.Recategorize(ctx, e.ID, model.CategoryFoodDining))

	got, _ := l.Get(e.ID)
	assert.False(t, got.UserCorrected)
	assert.Equal(t, model.FeedbackNegative, got.FeedbackStatus)
	assert.Equal(t, 0, set.Len())
	assert.Len(t, saver.saves, savesBefore)
}

func TestLedger_RecategorizeRecordsCorrection(t *testing.T) {
	l, set, _ := newTestLedger(t)
	ctx := context.Background()

	e := l.Add(ctx, "Coffee", amount("4.50"), model.CategoryFoodDining, true)
	require.True(t, l.RecordFeedback(ctx, e.ID, model.FeedbackPositive))

	assert.True(t, l.Recategorize(ctx, e.ID, model.CategoryShopping))

	got, _ := l.Get(e.ID)
	assert.Equal(t, model.CategoryShopping, got.Category)
	assert.True(t, got.UserCorrected)
	assert.Equal(t, model.FeedbackUnset, got.FeedbackStatus)

	hint, ok := set.Get("Coffee")
	require.True(t, ok)
	assert.Equal(t, model.CategoryShopping, hint.CorrectCategory)
}

func TestLedger_RecategorizeUnknownIsNoop(t *testing.T) {
	l, set, _ := newTestLedger(t)
	assert.False(t, l.Recategorize(context.Background(), "missing", model.CategoryTravel))
	assert.Equal(t, 0, set.Len())
}

func TestLedger_RecategorizeRejectsUnknownCategory(t *testing.T) {
	l, set, saver := newTestLedger(t)
	ctx := context.Background()

	e := l.Add(ctx, "Coffee", amount("4.50"), model.CategoryFoodDining, true)
	savesBefore := len(saver.saves)

	assert.False(t, l.Recategorize(ctx, e.ID, model.Category("Groceries")))
	assert.False(t, l.Recategorize(ctx, e.ID, ""))

	got, _ := l.Get(e.ID)
	assert.Equal(t, model.CategoryFoodDining, got.Category)
	assert.False(t, got.UserCorrected)
	assert.Equal(t, 0, set.Len())
	assert.Len(t, saver.saves, savesBefore)
}

func TestLedger_PositiveFeedbackAddsHintWhenAbsent(t *testing.T) {
	l, set, _ := newTestLedger(t)
	ctx := context.Background()

	e := l.Add(ctx, "Netflix", amount("15.99"), model.CategoryBills, true)
	assert.True(t, l.RecordFeedback(ctx, e.ID, model.FeedbackPositive))

	got, _ := l.Get(e.ID)
	assert.Equal(t, model.FeedbackPositive, got.FeedbackStatus)
	assert.True(t, got.UserCorrected)

	hint, ok := set.Get("Netflix")
	require.True(t, ok)
	assert.Equal(t, model.CategoryBills, hint.CorrectCategory)
}

func TestLedger_PositiveFeedbackKeepsExistingCorrection(t *testing.T) {
	l, set, _ := newTestLedger(t)
	ctx := context.Background()

	first := l.Add(ctx, "Coffee", amount("4.50"), model.CategoryFoodDining, true)
	second := l.Add(ctx, "Coffee", amount("5.00"), model.CategoryFoodDining, true)
	require.True(t, l.Recategorize(ctx, first.ID, model.CategoryShopping))

	require.True(t, l.RecordFeedback(ctx, second.ID, model.FeedbackPositive))

	hint, ok := set.Get("Coffee")
	require.True(t, ok)
	assert.Equal(t, model.CategoryShopping, hint.CorrectCategory, "confirmation must not overwrite a correction")
	assert.Equal(t, 1, set.Len())
}

func TestLedger_NegativeFeedbackOnlyFlags(t *testing.T) {
	l, set, _ := newTestLedger(t)
	ctx := context.Background()

	e := l.Add(ctx, "Uber", amount("23"), model.CategoryTravel, true)
	assert.True(t, l.RecordFeedback(ctx, e.ID, model.FeedbackNegative))

	got, _ := l.Get(e.ID)
	assert.Equal(t, model.FeedbackNegative, got.FeedbackStatus)
	assert.Equal(t, model.CategoryTravel, got.Category)
	assert.False(t, got.UserCorrected)
	assert.Equal(t, 0, set.Len())
}

func TestLedger_FeedbackOnUnknownOrInvalidIsNoop(t *testing.T) {
	l, _, saver := newTestLedger(t)
	ctx := context.Background()

	e := l.Add(ctx, "Uber", amount("23"), model.CategoryTransport, true)

	assert.False(t, l.RecordFeedback(ctx, "missing", model.FeedbackPositive))
	assert.False(t, l.RecordFeedback(ctx, e.ID, model.FeedbackUnset))
	assert.Len(t, saver.saves, 1)
}

func TestLedger_PositiveFeedbackImpliesUserCorrected(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	e := l.Add(ctx, "Gym", amount("40"), model.CategoryHealth, true)
	l.RecordFeedback(ctx, e.ID, model.FeedbackNegative)
	l.RecordFeedback(ctx, e.ID, model.FeedbackPositive)
	l.Recategorize(ctx, e.ID, model.CategoryEntertainment)
	l.RecordFeedback(ctx, e.ID, model.FeedbackNegative)

	for _, got := range l.Snapshot() {
		if got.FeedbackStatus == model.FeedbackPositive {
			assert.True(t, got.UserCorrected)
		}
		assert.True(t, got.UserCorrected, "user corrected never resets")
	}
}

func TestLedger_CoffeeScenario(t *testing.T) {
	l, set, _ := newTestLedger(t)
	ctx := context.Background()

	coffee := l.Add(ctx, "Coffee", amount("4.50"), model.CategoryFoodDining, true)
	l.Add(ctx, "Bus", amount("2.00"), model.CategoryTransport, true)
	l.Add(ctx, "Coffee", amount("5.00"), model.CategoryFoodDining, true)

	require.True(t, l.Recategorize(ctx, coffee.ID, model.CategoryShopping))

	assert.Equal(t, []model.TrainingExample{
		{Description: "Coffee", CorrectCategory: model.CategoryShopping},
	}, set.Snapshot())
}

func TestLedger_SaveErrKeepsMutation(t *testing.T) {
	saver := &recordingSaver{err: errors.New("read-only database")}
	l := New(saver, nil, nil)

	e := l.Add(context.Background(), "Coffee", amount("4.50"), model.CategoryFoodDining, true)

	_, ok := l.Get(e.ID)
	assert.True(t, ok)
	assert.EqualError(t, l.SaveErr(), "read-only database")
}

func TestNew_HydratesFromPersistedCopy(t *testing.T) {
	persisted := []model.Expense{{ID: "a", Description: "Rent", Category: model.CategoryBills}}
	l := New(nil, nil, persisted)

	persisted[0].Description = "mutated"
	got, ok := l.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Rent", got.Description)
}
