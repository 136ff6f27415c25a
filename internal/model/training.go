package model

import "strings"

// TrainingExample is a human confirmed (description, category) hint.
type TrainingExample struct {
	Description     string   `json:"description"`
	CorrectCategory Category `json:"correctCategory"`
}

// TrainingKey normalizes a description for training set lookups:
// surrounding whitespace is trimmed and case is folded.
func TrainingKey(description string) string {
	return strings.ToLower(strings.TrimSpace(description))
}
