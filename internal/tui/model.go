// Package tui implements the interactive review screen for AI suggested
// categories.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/spendsmart/internal/model"
	"github.com/Veraticus/spendsmart/internal/tui/themes"
)

// Reviewer applies review decisions. *ledger.Ledger satisfies it.
type Reviewer interface {
	RecordFeedback(ctx context.Context, id string, judgment model.FeedbackStatus) bool
	Recategorize(ctx context.Context, id string, category model.Category) bool
}

// State represents the current state of the TUI.
type State int

// Review states.
const (
	StateReview State = iota
	StatePicking
	StateDone
)

// Stats counts what happened during a session.
type Stats struct {
	Accepted      int
	Rejected      int
	Recategorized int
	Skipped       int
	Missing       int
}

// Config configures a review session.
type Config struct {
	Reviewer Reviewer
	Palette  model.Palette
	Currency model.Currency
	Theme    themes.Theme
	// Queue is reviewed in order.
	Queue []model.Expense
}

// Model holds the review screen state.
type Model struct {
	ctx        context.Context
	reviewer   Reviewer
	palette    model.Palette
	currency   model.Currency
	theme      themes.Theme
	keymap     KeyMap
	help       help.Model
	status     string
	queue      []model.Expense
	categories []model.Category
	stats      Stats
	index      int
	cursor     int
	width      int
	state      State
	busy       bool
	quitting   bool
}

// NewModel creates a review model. ctx bounds every ledger call.
func NewModel(ctx context.Context, cfg Config) Model {
	state := StateReview
	if len(cfg.Queue) == 0 {
		state = StateDone
	}
	return Model{
		ctx:        ctx,
		reviewer:   cfg.Reviewer,
		palette:    cfg.Palette.Complete(),
		currency:   cfg.Currency,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		queue:      cfg.Queue,
		categories: model.Categories(),
		state:      state,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Stats returns the session counters.
func (m Model) Stats() Stats {
	return m.stats
}

// Current returns the expense under review.
func (m Model) Current() (model.Expense, bool) {
	if m.index >= len(m.queue) {
		return model.Expense{}, false
	}
	return m.queue[m.index], true
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case reviewedMsg:
		return m.handleReviewed(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.state {
		case StatePicking:
			return m.updatePicking(msg)
		case StateDone:
			if key.Matches(msg, m.keymap.Quit, m.keymap.Cancel, m.keymap.Select) {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		default:
			return m.updateReview(msg)
		}
	}
	return m, nil
}

func (m Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	current, ok := m.Current()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit, m.keymap.Cancel):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keymap.Accept):
		m.busy = true
		return m, m.apply(current, actionAccept, "")
	case key.Matches(msg, m.keymap.Reject):
		m.busy = true
		return m, m.apply(current, actionReject, "")
	case key.Matches(msg, m.keymap.Pick):
		m.state = StatePicking
		m.cursor = m.categoryIndex(current.Category)
	case key.Matches(msg, m.keymap.Skip):
		m.stats.Skipped++
		m.status = "Skipped " + current.Description
		m.advance()
	}
	return m, nil
}

func (m Model) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel, m.keymap.Quit):
		m.state = StateReview
	case key.Matches(msg, m.keymap.Up):
		m.cursor = (m.cursor - 1 + len(m.categories)) % len(m.categories)
	case key.Matches(msg, m.keymap.Down):
		m.cursor = (m.cursor + 1) % len(m.categories)
	case key.Matches(msg, m.keymap.Select):
		current, ok := m.Current()
		if !ok {
			return m, nil
		}
		m.state = StateReview
		m.busy = true
		picked := m.categories[m.cursor]
		if picked == current.Category {
			// Keeping the suggested category confirms it.
			return m, m.apply(current, actionAccept, picked)
		}
		return m, m.apply(current, actionRecategorize, picked)
	}
	return m, nil
}

// apply runs the ledger mutation off the update loop.
func (m Model) apply(e model.Expense, a action, category model.Category) tea.Cmd {
	reviewer, ctx := m.reviewer, m.ctx
	return func() tea.Msg {
		var applied bool
		switch a {
		case actionAccept:
			applied = reviewer.RecordFeedback(ctx, e.ID, model.FeedbackPositive)
		case actionReject:
			applied = reviewer.RecordFeedback(ctx, e.ID, model.FeedbackNegative)
		case actionRecategorize:
			applied = reviewer.Recategorize(ctx, e.ID, category)
		}
		return reviewedMsg{expense: e, action: a, category: category, applied: applied}
	}
}

func (m Model) handleReviewed(msg reviewedMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	switch {
	case !msg.applied:
		m.stats.Missing++
		m.status = msg.expense.Description + " no longer exists"
	case msg.action == actionAccept:
		m.stats.Accepted++
		m.status = "Accepted " + string(msg.expense.Category) + " for " + msg.expense.Description
	case msg.action == actionReject:
		m.stats.Rejected++
		m.status = "Rejected " + string(msg.expense.Category) + " for " + msg.expense.Description
	default:
		m.stats.Recategorized++
		m.status = "Moved " + msg.expense.Description + " to " + string(msg.category)
	}

	m.advance()
	return m, nil
}

func (m *Model) advance() {
	m.index++
	if m.index >= len(m.queue) {
		m.state = StateDone
	}
}

func (m Model) categoryIndex(c model.Category) int {
	for i, known := range m.categories {
		if known == c {
			return i
		}
	}
	return len(m.categories) - 1
}
