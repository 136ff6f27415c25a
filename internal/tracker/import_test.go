package tracker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendsmart/internal/model"
	"github.com/Veraticus/spendsmart/internal/storage"
)

func entry(desc, amount string) Entry {
	return Entry{Description: desc, Amount: decimal.RequireFromString(amount)}
}

func TestImport_AddsInInputOrder(t *testing.T) {
	oracle := &stubOracle{answers: map[string]model.Category{
		"Uber":    model.CategoryTransport,
		"Netflix": model.CategoryBills,
		"Hotel":   model.CategoryTravel,
	}}
	tr := openTracker(t, storage.NewMemoryStore(), WithCategoryOracle(oracle))

	gift := model.CategoryOthers
	entries := []Entry{
		entry("Uber", "23"),
		entry("Netflix", "15.99"),
		{Description: "Birthday gift", Amount: decimal.NewFromInt(50), Category: &gift},
		entry("Hotel", "180"),
	}

	var progress atomic.Int32
	result, err := tr.Import(context.Background(), entries, ImportOptions{
		Concurrency: 2,
		Progress:    func() { progress.Add(1) },
	})
	require.NoError(t, err)

	var got []string
	for _, e := range tr.Ledger().Snapshot() {
		got = append(got, e.Description)
	}
	assert.Equal(t, []string{"Uber", "Netflix", "Birthday gift", "Hotel"}, got)

	assert.Equal(t, model.CategoryTransport, result.Added[0].Category)
	assert.True(t, result.Added[0].IsAIGenerated)
	assert.False(t, result.Added[2].IsAIGenerated, "explicit categories are not AI suggestions")
	assert.Equal(t, 0, result.Unpredicted)
	assert.Equal(t, int32(4), progress.Load())
}

func TestImport_PredictionFailureFallsBackToOthers(t *testing.T) {
	oracle := &stubOracle{err: errors.New("offline")}
	tr := openTracker(t, storage.NewMemoryStore(), WithCategoryOracle(oracle))

	result, err := tr.Import(context.Background(), []Entry{entry("Uber", "23")}, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Unpredicted)
	assert.Equal(t, model.CategoryOthers, result.Added[0].Category)
}

func TestImport_InvalidEntryAddsNothing(t *testing.T) {
	tr := openTracker(t, storage.NewMemoryStore(), WithCategoryOracle(&stubOracle{}))

	_, err := tr.Import(context.Background(), []Entry{entry("Uber", "23"), entry("Broken", "-1")}, ImportOptions{})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
	assert.ErrorContains(t, err, "entry 2")
	assert.Equal(t, 0, tr.Ledger().Len())
}

func TestImport_CanceledAddsNothing(t *testing.T) {
	oracle := &stubOracle{gate: map[string]chan struct{}{"Uber": make(chan struct{})}}
	tr := openTracker(t, storage.NewMemoryStore(), WithCategoryOracle(oracle))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Import(ctx, []Entry{entry("Uber", "23")}, ImportOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, tr.Ledger().Len())
}
