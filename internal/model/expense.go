// Package model defines the core domain models used throughout the application.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FeedbackStatus is the last explicit human judgment on an AI suggested category.
type FeedbackStatus string

// Feedback status constants.
const (
	FeedbackUnset    FeedbackStatus = ""
	FeedbackPositive FeedbackStatus = "positive"
	FeedbackNegative FeedbackStatus = "negative"
)

// ParseFeedback accepts positive/negative and their everyday spellings.
func ParseFeedback(s string) (FeedbackStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "good", "up", "yes", "y":
		return FeedbackPositive, true
	case "negative", "bad", "down", "no", "n":
		return FeedbackNegative, true
	default:
		return FeedbackUnset, false
	}
}

// Input validation errors for collaborators that compose expenses.
var (
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
)

// Expense is one recorded transaction.
type Expense struct {
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	ID             string          `json:"id"`
	Description    string          `json:"description"`
	Category       Category        `json:"category"`
	FeedbackStatus FeedbackStatus  `json:"feedbackStatus,omitempty"`
	IsAIGenerated  bool            `json:"isAiGenerated"`
	UserCorrected  bool            `json:"userCorrected,omitempty"`
}

// DateLayout is how expense dates are written: a calendar date, no time.
const DateLayout = "2006-01-02"

type expenseJSON Expense

// MarshalJSON writes the date as a plain calendar date.
func (e Expense) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		expenseJSON
		Date string `json:"date"`
	}{expenseJSON: expenseJSON(e), Date: e.Date.Format(DateLayout)})
}

// UnmarshalJSON accepts calendar dates as well as RFC 3339 timestamps.
func (e *Expense) UnmarshalJSON(data []byte) error {
	aux := struct {
		*expenseJSON
		Date string `json:"date"`
	}{expenseJSON: (*expenseJSON)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch {
	case aux.Date == "":
		e.Date = time.Time{}
	case len(aux.Date) == len(DateLayout):
		d, err := time.Parse(DateLayout, aux.Date)
		if err != nil {
			return fmt.Errorf("invalid expense date %q: %w", aux.Date, err)
		}
		e.Date = d
	default:
		d, err := time.Parse(time.RFC3339, aux.Date)
		if err != nil {
			return fmt.Errorf("invalid expense date %q: %w", aux.Date, err)
		}
		e.Date = Today(d)
	}
	return nil
}

// NeedsReview reports whether the category is still an unreviewed AI suggestion.
func (e Expense) NeedsReview() bool {
	return e.IsAIGenerated && !e.UserCorrected
}

// Today returns the calendar date of t as midnight UTC.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseAmount parses a positive decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	return amount, nil
}

// ValidateExpenseInput checks what the ledger deliberately does not.
func ValidateExpenseInput(description string, amount decimal.Decimal) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	return nil
}
