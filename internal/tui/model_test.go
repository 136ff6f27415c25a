package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendsmart/internal/ledger"
	"github.com/Veraticus/spendsmart/internal/model"
	"github.com/Veraticus/spendsmart/internal/training"
	"github.com/Veraticus/spendsmart/internal/tui/themes"
)

type fakeReviewer struct {
	feedback   map[string]model.FeedbackStatus
	categories map[string]model.Category
	missing    map[string]bool
}

func newFakeReviewer() *fakeReviewer {
	return &fakeReviewer{
		feedback:   map[string]model.FeedbackStatus{},
		categories: map[string]model.Category{},
		missing:    map[string]bool{},
	}
}

func (f *fakeReviewer) RecordFeedback(_ context.Context, id string, judgment model.FeedbackStatus) bool {
	if f.missing[id] {
		return false
	}
	f.feedback[id] = judgment
	return true
}

func (f *fakeReviewer) Recategorize(_ context.Context, id string, category model.Category) bool {
	if f.missing[id] {
		return false
	}
	f.categories[id] = category
	return true
}

func queue() []model.Expense {
	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	return []model.Expense{
		{ID: "1", Date: day, Description: "Coffee", Amount: decimal.RequireFromString("4.50"), Category: model.CategoryFoodDining, IsAIGenerated: true},
		{ID: "2", Date: day, Description: "Bus", Amount: decimal.RequireFromString("2.75"), Category: model.CategoryShopping, IsAIGenerated: true},
		{ID: "3", Date: day, Description: "Gym", Amount: decimal.NewFromInt(40), Category: model.CategoryOthers, IsAIGenerated: true},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and resolves any command the model returns.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	out := cmd()
	if _, quit := out.(tea.QuitMsg); quit {
		return m
	}
	next, _ = m.Update(out)
	return next.(Model)
}

func newTestModel(r Reviewer, q []model.Expense) Model {
	return NewModel(context.Background(), Config{
		Reviewer: r,
		Palette:  model.DefaultPalette(),
		Currency: model.DefaultCurrency(),
		Theme:    themes.Default,
		Queue:    q,
	})
}

func TestModel_AcceptRejectPick(t *testing.T) {
	r := newFakeReviewer()
	m := newTestModel(r, queue())

	m = press(t, m, runes("a"))
	assert.Equal(t, model.FeedbackPositive, r.feedback["1"])

	// Bus: choose Transport from the picker.
	m = press(t, m, runes("c"))
	require.Equal(t, StatePicking, m.state)
	for m.categories[m.cursor] != model.CategoryTransport {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, model.CategoryTransport, r.categories["2"])

	m = press(t, m, runes("n"))
	assert.Equal(t, model.FeedbackNegative, r.feedback["3"])

	assert.Equal(t, StateDone, m.state)
	assert.Equal(t, Stats{Accepted: 1, Rejected: 1, Recategorized: 1}, m.Stats())
	assert.Contains(t, m.View(), "Review complete")
}

func TestModel_PickerStartsAtCurrentCategoryAndWraps(t *testing.T) {
	m := newTestModel(newFakeReviewer(), queue()[:1])

	m = press(t, m, runes("c"))
	assert.Equal(t, model.CategoryFoodDining, m.categories[m.cursor])

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, model.CategoryOthers, m.categories[m.cursor], "wraps to the last category")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateReview, m.state)
	assert.Equal(t, 0, m.index, "cancel leaves the expense in place")
}

func TestModel_PickingCurrentCategoryConfirmsIt(t *testing.T) {
	ctx := context.Background()
	set := training.New(nil, nil, nil)
	l := ledger.New(nil, set, nil, ledger.WithIDGenerator(func() string { return "1" }))
	e := l.Add(ctx, "Coffee", decimal.RequireFromString("4.50"), model.CategoryFoodDining, true)

	m := newTestModel(l, []model.Expense{e})
	m = press(t, m, runes("c"))
	require.Equal(t, model.CategoryFoodDining, m.categories[m.cursor])
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, Stats{Accepted: 1}, m.Stats())
	assert.NotContains(t, m.status, "no longer exists")

	got, ok := l.Get("1")
	require.True(t, ok)
	assert.Equal(t, model.FeedbackPositive, got.FeedbackStatus)
	assert.Equal(t, model.CategoryFoodDining, got.Category)
	assert.False(t, got.NeedsReview())

	hint, ok := set.Get("Coffee")
	require.True(t, ok)
	assert.Equal(t, model.CategoryFoodDining, hint.CorrectCategory)
}

func TestModel_SkipAndMissing(t *testing.T) {
	r := newFakeReviewer()
	r.missing["2"] = true
	m := newTestModel(r, queue())

	m = press(t, m, runes("s"))
	m = press(t, m, runes("a"))
	assert.Contains(t, m.View(), "Bus no longer exists")

	m = press(t, m, runes("y"))
	assert.Equal(t, Stats{Accepted: 1, Skipped: 1, Missing: 1}, m.Stats())
	assert.Empty(t, r.feedback["1"], "skipped expenses are untouched")
}

func TestModel_EmptyQueue(t *testing.T) {
	m := newTestModel(newFakeReviewer(), nil)

	assert.Equal(t, StateDone, m.state)
	assert.Contains(t, m.View(), "Nothing to review")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_IgnoresKeysWhileBusy(t *testing.T) {
	r := newFakeReviewer()
	m := newTestModel(r, queue())

	next, cmd := m.Update(runes("a"))
	require.NotNil(t, cmd)
	m = next.(Model)

	next, cmd = m.Update(runes("a"))
	assert.Nil(t, cmd)
	m = next.(Model)
	assert.Equal(t, 0, m.index)
}

func TestModel_View(t *testing.T) {
	m := newTestModel(newFakeReviewer(), queue())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := next.(Model).View()

	assert.Contains(t, view, "Review suggestions (1/3)")
	assert.Contains(t, view, "Coffee")
	assert.Contains(t, view, "$4.50")
	assert.Contains(t, view, "Food & Dining")
	assert.Contains(t, view, "accept suggestion")
}
