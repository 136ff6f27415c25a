package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/model"
)

// Document keys. They match the keys earlier releases wrote to browser storage
// so exported blobs can be imported unchanged.
const (
	KeyExpenses = "smarttrack_expenses"
	KeyTraining = "smarttrack_training"
	KeyColors   = "smarttrack_colors"
	KeyCurrency = "smarttrack_currency"
)

// Snapshot is everything loaded at startup.
type Snapshot struct {
	Palette  model.Palette
	Currency model.Currency
	Expenses []model.Expense
	Training []model.TrainingExample
}

// Repository encodes typed documents into a KeyValueStore.
type Repository struct {
	store  KeyValueStore
	logger *slog.Logger
}

// NewRepository wraps store.
func NewRepository(store KeyValueStore, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, logger: logger}
}

// LoadAll reads every document. Missing documents load as empty or default;
// a document that cannot be decoded is reported as common.ErrDatabaseCorrupted.
func (r *Repository) LoadAll(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{
		Palette:  model.DefaultPalette(),
		Currency: model.DefaultCurrency(),
	}

	if _, err := r.loadJSON(ctx, KeyExpenses, &snap.Expenses); err != nil {
		return Snapshot{}, err
	}
	if _, err := r.loadJSON(ctx, KeyTraining, &snap.Training); err != nil {
		return Snapshot{}, err
	}

	var colors model.Palette
	if ok, err := r.loadJSON(ctx, KeyColors, &colors); err != nil {
		return Snapshot{}, err
	} else if ok {
		snap.Palette = colors.Complete()
	}

	code, ok, err := r.store.Load(ctx, KeyCurrency)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load currency: %w", err)
	}
	if ok {
		if c, found := model.FindCurrency(strings.TrimSpace(string(code))); found {
			snap.Currency = c
		} else {
			r.logger.Warn("unknown stored currency, using default",
				"code", string(code),
				"default", snap.Currency.Code)
		}
	}

	r.logger.Debug("loaded documents",
		"expenses", len(snap.Expenses),
		"training", len(snap.Training),
		"currency", snap.Currency.Code)

	return snap, nil
}

func (r *Repository) loadJSON(ctx context.Context, key string, v any) (bool, error) {
	blob, ok, err := r.store.Load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok || len(blob) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(blob, v); err != nil {
		return false, fmt.Errorf("%w: %s: %w", common.ErrDatabaseCorrupted, key, err)
	}
	return true, nil
}

func (r *Repository) saveJSON(ctx context.Context, key string, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return r.store.Save(ctx, key, blob)
}

// SaveExpenses replaces the expense document.
func (r *Repository) SaveExpenses(ctx context.Context, expenses []model.Expense) error {
	if expenses == nil {
		expenses = []model.Expense{}
	}
	return r.saveJSON(ctx, KeyExpenses, expenses)
}

// SaveTraining replaces the training document.
func (r *Repository) SaveTraining(ctx context.Context, examples []model.TrainingExample) error {
	if examples == nil {
		examples = []model.TrainingExample{}
	}
	return r.saveJSON(ctx, KeyTraining, examples)
}

// SavePalette replaces the color document.
func (r *Repository) SavePalette(ctx context.Context, palette model.Palette) error {
	return r.saveJSON(ctx, KeyColors, palette)
}

// SaveCurrency stores the selected currency code as plain text.
func (r *Repository) SaveCurrency(ctx context.Context, currency model.Currency) error {
	return r.store.Save(ctx, KeyCurrency, []byte(currency.Code))
}

// Close closes the underlying store.
func (r *Repository) Close() error {
	return r.store.Close()
}
