// Package aggregate derives totals, filters and orderings from a ledger
// snapshot. Nothing here holds state; recompute after every ledger change.
package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsmart/internal/model"
)

// SortKey selects an expense ordering.
type SortKey string

// Supported orderings.
const (
	SortDateDesc   SortKey = "date-desc"
	SortDateAsc    SortKey = "date-asc"
	SortAmountDesc SortKey = "amount-desc"
	SortAmountAsc  SortKey = "amount-asc"
)

// ParseSortKey validates a sort key; empty means date-desc.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc:
		return key, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Criteria restricts a listing. Zero values match everything.
type Criteria struct {
	Category *model.Category
	Query    string
}

// TotalsByCategory sums amounts per category, for categories with at least one expense.
func TotalsByCategory(expenses []model.Expense) map[model.Category]decimal.Decimal {
	totals := make(map[model.Category]decimal.Decimal)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// GrandTotal sums every amount.
func GrandTotal(expenses []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Average is the mean amount, zero for an empty list.
func Average(expenses []model.Expense) decimal.Decimal {
	if len(expenses) == 0 {
		return decimal.Zero
	}
	return GrandTotal(expenses).Div(decimal.NewFromInt(int64(len(expenses))))
}

// Filter returns the subsequence of expenses matching f, in the original order.
func Filter(expenses []model.Expense, f Criteria) []model.Expense {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if query != "" && !strings.Contains(strings.ToLower(e.Description), query) {
			continue
		}
		if f.Category != nil && e.Category != *f.Category {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Sort returns a stably sorted copy of expenses; ties keep ledger order.
func Sort(expenses []model.Expense, key SortKey) []model.Expense {
	out := make([]model.Expense, len(expenses))
	copy(out, expenses)

	var less func(a, b model.Expense) bool
	switch key {
	case SortDateAsc:
		less = func(a, b model.Expense) bool { return a.Date.Before(b.Date) }
	case SortAmountDesc:
		less = func(a, b model.Expense) bool { return a.Amount.GreaterThan(b.Amount) }
	case SortAmountAsc:
		less = func(a, b model.Expense) bool { return a.Amount.LessThan(b.Amount) }
	default:
		less = func(a, b model.Expense) bool { return a.Date.After(b.Date) }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Recent returns up to n expenses, newest entry first.
func Recent(expenses []model.Expense, n int) []model.Expense {
	if n <= 0 || n > len(expenses) {
		n = len(expenses)
	}
	out := make([]model.Expense, 0, n)
	for i := len(expenses) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, expenses[i])
	}
	return out
}

// DateSpan returns the earliest and latest dates, ok is false for an empty list.
func DateSpan(expenses []model.Expense) (first, last time.Time, ok bool) {
	for i, e := range expenses {
		if i == 0 || e.Date.Before(first) {
			first = e.Date
		}
		if i == 0 || e.Date.After(last) {
			last = e.Date
		}
	}
	return first, last, len(expenses) > 0
}

// CategoryShare is one row of a breakdown.
type CategoryShare struct {
	Category model.Category
	Total    decimal.Decimal
	Share    decimal.Decimal // fraction of the grand total, 0..1
	Count    int
}

// Breakdown lists per-category totals in category display order, only for
// categories that have expenses.
func Breakdown(expenses []model.Expense) []CategoryShare {
	totals := TotalsByCategory(expenses)
	grand := GrandTotal(expenses)

	counts := make(map[model.Category]int, len(totals))
	for _, e := range expenses {
		counts[e.Category]++
	}

	var rows []CategoryShare
	seen := make(map[model.Category]bool, len(totals))
	appendRow := func(c model.Category) {
		share := decimal.Zero
		if grand.IsPositive() {
			share = totals[c].Div(grand)
		}
		rows = append(rows, CategoryShare{Category: c, Total: totals[c], Share: share, Count: counts[c]})
		seen[c] = true
	}

	for _, c := range model.Categories() {
		if _, ok := totals[c]; ok {
			appendRow(c)
		}
	}

	// Unknown categories follow, by name.
	var unknown []model.Category
	for c := range totals {
		if !seen[c] {
			unknown = append(unknown, c)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, c := range unknown {
		appendRow(c)
	}

	return rows
}
