package sheets

import (
	"github.com/Veraticus/spendsmart/internal/aggregate"
	"github.com/Veraticus/spendsmart/internal/model"
)

const reportDateLayout = "Jan 2, 2006"

// columnRange marks rows [start, end) of one column.
type columnRange struct {
	start, end int
	column     int
}

// Report is the laid out sheet content plus the rows that need styling.
type Report struct {
	Values [][]any
	// Headers are the row indexes of section titles and column headings.
	Headers []int
	amounts []columnRange
	shares  []columnRange
}

// BuildReport lays out a summary, a category breakdown and every expense,
// newest first. Amounts are written as plain numbers so the sheet can sum them.
func BuildReport(expenses []model.Expense, currency model.Currency) Report {
	var r Report
	breakdown := aggregate.Breakdown(expenses)

	span := "No expenses"
	if first, last, ok := aggregate.DateSpan(expenses); ok {
		span = first.Format(reportDateLayout) + " - " + last.Format(reportDateLayout)
	}

	r.Values = make([][]any, 0, 16+len(breakdown)+len(expenses))
	r.Values = append(r.Values,
		[]any{"SpendSmart Report", span},
		[]any{},
	)

	r.header([]any{"Summary"})
	summaryStart := len(r.Values)
	r.Values = append(r.Values,
		[]any{"Total Amount", aggregate.GrandTotal(expenses).StringFixed(2)},
		[]any{"Average Expense", aggregate.Average(expenses).StringFixed(2)},
	)
	r.amounts = append(r.amounts, columnRange{start: summaryStart, end: len(r.Values), column: 1})
	r.Values = append(r.Values,
		[]any{"Total Expenses", len(expenses)},
		[]any{"Currency", currency.Code},
		[]any{},
	)

	r.header([]any{"Category Breakdown"})
	r.header([]any{"Category", "Count", "Amount", "Share"})
	breakdownStart := len(r.Values)
	for _, row := range breakdown {
		r.Values = append(r.Values, []any{
			string(row.Category),
			row.Count,
			row.Total.StringFixed(2),
			row.Share.StringFixed(4),
		})
	}
	r.amounts = append(r.amounts, columnRange{start: breakdownStart, end: len(r.Values), column: 2})
	r.shares = append(r.shares, columnRange{start: breakdownStart, end: len(r.Values), column: 3})
	r.Values = append(r.Values, []any{})

	r.header([]any{"Expense Details"})
	r.header([]any{"Date", "Description", "Amount", "Category", "Source", "Feedback"})
	detailStart := len(r.Values)
	for _, e := range aggregate.Sort(expenses, aggregate.SortDateDesc) {
		r.Values = append(r.Values, []any{
			e.Date.Format(model.DateLayout),
			e.Description,
			e.Amount.StringFixed(2),
			string(e.Category),
			source(e),
			feedback(e),
		})
	}
	r.amounts = append(r.amounts, columnRange{start: detailStart, end: len(r.Values), column: 2})

	return r
}

func (r *Report) header(row []any) {
	r.Headers = append(r.Headers, len(r.Values))
	r.Values = append(r.Values, row)
}

func source(e model.Expense) string {
	switch {
	case e.UserCorrected:
		return "Corrected"
	case e.IsAIGenerated:
		return "AI"
	default:
		return "Manual"
	}
}

func feedback(e model.Expense) string {
	switch e.FeedbackStatus {
	case model.FeedbackPositive:
		return "Confirmed"
	case model.FeedbackNegative:
		return "Rejected"
	default:
		return ""
	}
}
