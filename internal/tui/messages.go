package tui

import "github.com/Veraticus/spendsmart/internal/model"

type action int

const (
	actionAccept action = iota
	actionReject
	actionRecategorize
)

// reviewedMsg reports that an action on one expense finished.
type reviewedMsg struct {
	expense  model.Expense
	category model.Category
	action   action
	applied  bool
}
