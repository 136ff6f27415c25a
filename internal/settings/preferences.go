// Package settings holds display preferences: the category palette and the
// selected currency.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/model"
)

const hexColorPattern = `^#[0-9a-fA-F]{6}$`

// Validation errors.
var (
	ErrInvalidColor    = errors.New("color must look like #RRGGBB")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownCurrency = errors.New("unknown currency")
)

// Saver persists preferences after every change.
type Saver interface {
	SavePalette(ctx context.Context, palette model.Palette) error
	SaveCurrency(ctx context.Context, currency model.Currency) error
}

// Preferences is the mutable display configuration.
type Preferences struct {
	saver    Saver
	logger   *slog.Logger
	palette  model.Palette
	currency model.Currency
	mu       sync.RWMutex
}

// New creates preferences from persisted values. The palette is completed
// with defaults so every category always has a color.
func New(saver Saver, logger *slog.Logger, palette model.Palette, currency model.Currency) *Preferences {
	if logger == nil {
		logger = slog.Default()
	}
	if _, ok := model.FindCurrency(currency.Code); !ok {
		currency = model.DefaultCurrency()
	}
	return &Preferences{
		saver:    saver,
		logger:   logger,
		palette:  palette.Complete(),
		currency: currency,
	}
}

// SetColor assigns a display color to category.
func (p *Preferences) SetColor(ctx context.Context, category model.Category, color string) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	color = strings.TrimSpace(color)
	ok, err := common.MatchRegex(hexColorPattern, color)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	color = strings.ToUpper(color)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.palette[category] == color {
		return nil
	}
	p.palette[category] = color
	p.logger.Debug("category color changed", "category", category, "color", color)

	return p.savePaletteLocked(ctx)
}

// ResetPalette restores the default colors.
func (p *Preferences) ResetPalette(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.palette = model.DefaultPalette()
	return p.savePaletteLocked(ctx)
}

// SetCurrency selects the display currency by code.
func (p *Preferences) SetCurrency(ctx context.Context, code string) (model.Currency, error) {
	currency, ok := model.FindCurrency(code)
	if !ok {
		return model.Currency{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.currency = currency
	if p.saver == nil {
		return currency, nil
	}
	if err := p.saver.SaveCurrency(ctx, currency); err != nil {
		return currency, fmt.Errorf("failed to save currency: %w", err)
	}
	return currency, nil
}

// Palette returns a copy of the current palette.
func (p *Preferences) Palette() model.Palette {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(model.Palette, len(p.palette))
	for c, color := range p.palette {
		out[c] = color
	}
	return out
}

// Currency returns the selected currency.
func (p *Preferences) Currency() model.Currency {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currency
}

func (p *Preferences) savePaletteLocked(ctx context.Context) error {
	if p.saver == nil {
		return nil
	}
	if err := p.saver.SavePalette(ctx, p.palette); err != nil {
		return fmt.Errorf("failed to save palette: %w", err)
	}
	return nil
}
