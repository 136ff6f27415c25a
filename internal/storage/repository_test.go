package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/model"
)

func TestRepository_LoadAllDefaults(t *testing.T) {
	repo := NewRepository(NewMemoryStore(), nil)

	snap, err := repo.LoadAll(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snap.Expenses)
	assert.Empty(t, snap.Training)
	assert.Equal(t, model.DefaultPalette(), snap.Palette)
	assert.Equal(t, model.DefaultCurrency(), snap.Currency)
}

func TestRepository_RoundTripsThroughSQLite(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(createTestStorage(t), nil)

	expenses := []model.Expense{{
		ID:             "e1",
		Description:    "Coffee",
		Amount:         decimal.RequireFromString("4.50"),
		Category:       model.CategoryShopping,
		Date:           time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		FeedbackStatus: model.FeedbackPositive,
		IsAIGenerated:  true,
		UserCorrected:  true,
	}}
	training := []model.TrainingExample{{Description: "Coffee", CorrectCategory: model.CategoryShopping}}
	palette := model.DefaultPalette()
	palette[model.CategoryTravel] = "#123456"
	eur, ok := model.FindCurrency("EUR")
	require.True(t, ok)

	require.NoError(t, repo.SaveExpenses(ctx, expenses))
	require.NoError(t, repo.SaveTraining(ctx, training))
	require.NoError(t, repo.SavePalette(ctx, palette))
	require.NoError(t, repo.SaveCurrency(ctx, eur))

	snap, err := repo.LoadAll(ctx)
	require.NoError(t, err)

	require.Len(t, snap.Expenses, 1)
	assert.True(t, snap.Expenses[0].Amount.Equal(expenses[0].Amount))
	snap.Expenses[0].Amount = expenses[0].Amount
	assert.Equal(t, expenses, snap.Expenses)
	assert.Equal(t, training, snap.Training)
	assert.Equal(t, "#123456", snap.Palette[model.CategoryTravel])
	assert.Equal(t, eur, snap.Currency)
}

func TestRepository_ReadsLegacyDocuments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	legacy := `[{"id":"abc","description":"Uber","category":"Transport","date":"2024-05-01","amount":23.5,"isAiGenerated":true,"feedbackStatus":"negative"}]`
	require.NoError(t, store.Save(ctx, KeyExpenses, []byte(legacy)))
	require.NoError(t, store.Save(ctx, KeyColors, []byte(`{"Travel":"#000000"}`)))
	require.NoError(t, store.Save(ctx, KeyCurrency, []byte("INR")))

	snap, err := NewRepository(store, nil).LoadAll(ctx)
	require.NoError(t, err)

	require.Len(t, snap.Expenses, 1)
	e := snap.Expenses[0]
	assert.Equal(t, "23.5", e.Amount.String())
	assert.Equal(t, model.FeedbackNegative, e.FeedbackStatus)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), e.Date)

	assert.Equal(t, "#000000", snap.Palette[model.CategoryTravel])
	assert.Equal(t, model.DefaultPalette()[model.CategoryHealth], snap.Palette[model.CategoryHealth], "missing colors fall back to defaults")
	assert.Equal(t, "INR", snap.Currency.Code)
}

func TestRepository_UnknownCurrencyFallsBack(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, KeyCurrency, []byte("XYZ")))

	snap, err := NewRepository(store, nil).LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCurrency(), snap.Currency)
}

func TestRepository_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, KeyTraining, []byte("{not json")))

	_, err := NewRepository(store, nil).LoadAll(ctx)
	assert.ErrorIs(t, err, common.ErrDatabaseCorrupted)
}

func TestRepository_NilSlicesEncodeAsEmptyArrays(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewRepository(store, nil)

	require.NoError(t, repo.SaveExpenses(ctx, nil))
	require.NoError(t, repo.SaveTraining(ctx, nil))

	blob, _, err := store.Load(ctx, KeyExpenses)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(blob))
	blob, _, err = store.Load(ctx, KeyTraining)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(blob))
}

type failingStore struct{ MemoryStore }

func (f *failingStore) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("io error")
}

func TestRepository_LoadErrorPropagates(t *testing.T) {
	_, err := NewRepository(&failingStore{}, nil).LoadAll(context.Background())
	assert.ErrorContains(t, err, "io error")
}
