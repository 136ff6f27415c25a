package tracker

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/model"
)

const defaultImportConcurrency = 4

// Entry is one expense to add in bulk. A nil Category asks the oracle.
type Entry struct {
	Category    *model.Category
	Amount      decimal.Decimal
	Description string
}

// ImportResult summarizes a bulk add.
type ImportResult struct {
	Added []model.Expense
	// Unpredicted counts entries whose prediction failed and were left as Others.
	Unpredicted int
}

// ImportOptions tunes Import.
type ImportOptions struct {
	// Progress is called once per classified entry, from any goroutine.
	Progress    func()
	Concurrency int
}

// Import validates every entry, classifies those without a category with
// bounded concurrency, then adds them to the ledger in input order. Nothing is
// added if any entry is invalid or ctx is canceled during classification.
func (t *Tracker) Import(ctx context.Context, entries []Entry, opts ImportOptions) (ImportResult, error) {
	for i, e := range entries {
		if err := model.ValidateExpenseInput(e.Description, e.Amount); err != nil {
			return ImportResult{}, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if e.Category != nil && !e.Category.Valid() {
			return ImportResult{}, fmt.Errorf("entry %d: unknown category %q", i+1, *e.Category)
		}
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultImportConcurrency
	}

	categories := make([]model.Category, len(entries))
	failed := make([]bool, len(entries))
	hints := t.training.Snapshot()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, e := range entries {
		if e.Category != nil {
			categories[i] = *e.Category
			if opts.Progress != nil {
				opts.Progress()
			}
			continue
		}

		g.Go(func() error {
			if opts.Progress != nil {
				defer opts.Progress()
			}

			categories[i] = model.CategoryOthers
			if t.categories == nil {
				failed[i] = true
				return nil
			}

			p, err := t.categories.PredictCategory(gctx, e.Description, hints)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				common.LogError(t.logger, err, "prediction failed during import", common.Fields{
					"description": e.Description,
				})
				failed[i] = true
				return nil
			}
			categories[i] = p.Category
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ImportResult{}, fmt.Errorf("import canceled: %w", err)
	}

	result := ImportResult{Added: make([]model.Expense, 0, len(entries))}
	for i, e := range entries {
		if failed[i] {
			result.Unpredicted++
		}
		result.Added = append(result.Added,
			t.ledger.Add(ctx, e.Description, e.Amount, categories[i], e.Category == nil))
	}

	t.logger.Info("import finished",
		"added", len(result.Added),
		"unpredicted", result.Unpredicted)

	return result, nil
}
