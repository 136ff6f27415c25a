package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the review screen until the user quits and returns the session
// counters.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) (Stats, error) {
	if cfg.Reviewer == nil {
		return Stats{}, fmt.Errorf("reviewer is required")
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(NewModel(ctx, cfg), opts...).Run()
	if err != nil {
		return Stats{}, fmt.Errorf("review screen failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return Stats{}, fmt.Errorf("unexpected model type %T", final)
	}
	return m.Stats(), nil
}
