package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spendsmart/internal/model"
)

const classifierSystemPrompt = "You are a professional financial auditor and data scientist specializing in expense classification."

const insightSystemPrompt = "You are a personal finance advisor. You MUST respond with ONLY a valid JSON object."

var categoryRules = map[model.Category]string{
	model.CategoryFoodDining:    "Restaurants, cafes, groceries, fast food, bars.",
	model.CategoryShopping:      "Clothes, electronics, home goods, Amazon, malls.",
	model.CategoryTransport:     "Gas, public transit, Uber/Lyft, parking, car maintenance.",
	model.CategoryBills:         "Rent, electricity, water, internet, phone, insurance, subscriptions like Netflix.",
	model.CategoryEntertainment: "Movies, concerts, gaming, hobbies, zoo, theater.",
	model.CategoryHealth:        "Doctor visits, pharmacy, gym, therapy, supplements.",
	model.CategoryTravel:        "Flights, hotels, Airbnb, car rentals, vacation tours.",
	model.CategoryEducation:     "Tuition, books, online courses, school supplies.",
	model.CategoryOthers:        "Cash withdrawals, gifts, donations, or anything else that doesn't fit.",
}

var standardExamples = []model.TrainingExample{
	{Description: "Starbucks", CorrectCategory: model.CategoryFoodDining},
	{Description: "Shell Gas Station", CorrectCategory: model.CategoryTransport},
	{Description: "H&M", CorrectCategory: model.CategoryShopping},
	{Description: "Rent Payment", CorrectCategory: model.CategoryBills},
	{Description: "CVS Pharmacy", CorrectCategory: model.CategoryHealth},
}

// buildCategoryPrompt lists the categories with their rules, a few standard
// examples and, when present, the user's corrections as overriding patterns.
func buildCategoryPrompt(description string, hints []model.TrainingExample) string {
	var b strings.Builder

	b.WriteString("AVAILABLE CATEGORIES & RULES:\n")
	for _, c := range model.Categories() {
		fmt.Fprintf(&b, "- %s: %s\n", c, categoryRules[c])
	}

	b.WriteString("\nExamples:\n")
	for _, ex := range standardExamples {
		fmt.Fprintf(&b, "%q -> %s\n", ex.Description, ex.CorrectCategory)
	}

	if len(hints) > 0 {
		b.WriteString("\nCRITICAL: The user has specifically corrected your previous mistakes. PRIORITIZE these patterns:\n")
		for _, h := range hints {
			fmt.Fprintf(&b, "- %q MUST be categorized as %q\n", h.Description, string(h.CorrectCategory))
		}
	}

	fmt.Fprintf(&b, "\nTASK:\nClassify the following merchant/description: %q\n", description)

	b.WriteString(`
OUTPUT INSTRUCTIONS:
- Respond with EXACTLY one of the category names listed above.
- Do not provide explanations or extra text.
- If unsure, choose the closest match based on the rules.`)

	return b.String()
}

// buildInsightPrompt lists one line per expense and describes the JSON shape.
func buildInsightPrompt(expenses []model.Expense, currency model.Currency) string {
	var b strings.Builder

	b.WriteString("Analyze these expenses and provide financial advice:\n")
	for _, e := range expenses {
		fmt.Fprintf(&b, "%s: %s - %s (%s)\n",
			e.Date.Format(model.DateLayout), e.Description, currency.Format(e.Amount), e.Category)
	}

	b.WriteString(`
Provide output in JSON format with exactly these fields:
{
  "summary": "A brief executive summary of spending.",
  "suggestions": ["3-4 actionable financial suggestions."],
  "prediction": "A forecast for next month's spending based on trends."
}`)

	return b.String()
}
