package model

import "strings"

// Category is one member of the closed set of spending categories.
type Category string

// The nine spending categories, in display order.
const (
	CategoryFoodDining    Category = "Food & Dining"
	CategoryShopping      Category = "Shopping"
	CategoryTransport     Category = "Transport"
	CategoryBills         Category = "Bills & Utilities"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealth        Category = "Health"
	CategoryTravel        Category = "Travel"
	CategoryEducation     Category = "Education"
	CategoryOthers        Category = "Others"
)

var allCategories = []Category{
	CategoryFoodDining,
	CategoryShopping,
	CategoryTransport,
	CategoryBills,
	CategoryEntertainment,
	CategoryHealth,
	CategoryTravel,
	CategoryEducation,
	CategoryOthers,
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// ParseCategory matches s against the enumeration, ignoring case and surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range allCategories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Prediction is the outcome of a category classification.
// Fallback is set when the oracle answered with something outside the
// enumeration and the result was coerced to CategoryOthers.
type Prediction struct {
	Category Category
	Raw      string
	Fallback bool
}

// NewPrediction validates raw oracle output into a Prediction.
func NewPrediction(raw string) Prediction {
	if c, ok := ParseCategory(raw); ok {
		return Prediction{Category: c, Raw: raw}
	}
	return Prediction{Category: CategoryOthers, Raw: raw, Fallback: true}
}
