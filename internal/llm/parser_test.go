package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendsmart/internal/model"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: `  {"a":1} `, want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "single line fence", input: "```{\"a\":1}```", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.input))
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		want     model.Category
		fallback bool
	}{
		{input: "Shopping", want: model.CategoryShopping},
		{input: "  food & dining\n", want: model.CategoryFoodDining},
		{input: `"Travel".`, want: model.CategoryTravel},
		{input: "**Health**", want: model.CategoryHealth},
		{input: "Category: Bills & Utilities", want: model.CategoryBills},
		{input: "Education\nBecause it is a book.", want: model.CategoryEducation},
		{input: "Groceries", want: model.CategoryOthers, fallback: true},
		{input: "", want: model.CategoryOthers, fallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := parseCategory(tt.input)
			assert.Equal(t, tt.want, p.Category)
			assert.Equal(t, tt.fallback, p.Fallback)
		})
	}
}

func TestParseInsight(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		insight, err := parseInsight("```json\n" +
			`{"summary":" Mostly food. ","suggestions":["a","", "b","c","d","e"],"prediction":"More food."}` +
			"\n```")
		require.NoError(t, err)

		assert.Equal(t, "Mostly food.", insight.Summary)
		assert.Equal(t, "More food.", insight.Prediction)
		assert.Equal(t, []string{"a", "b", "c", "d"}, insight.Suggestions)
		assert.False(t, insight.Fallback)
	})

	for name, input := range map[string]string{
		"empty":              "",
		"not json":           "You spend a lot.",
		"missing summary":    `{"suggestions":["a"],"prediction":"p"}`,
		"missing prediction": `{"summary":"s","suggestions":["a"]}`,
		"no suggestions":     `{"summary":"s","suggestions":[],"prediction":"p"}`,
		"two suggestions":    `{"summary":"s","suggestions":["a","b"],"prediction":"p"}`,
		"blank padding":      `{"summary":"s","suggestions":["a"," ","b"],"prediction":"p"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseInsight(input)
			assert.Error(t, err)
		})
	}
}

func TestBuildCategoryPrompt(t *testing.T) {
	without := buildCategoryPrompt("Starbucks latte", nil)
	assert.NotContains(t, without, "CRITICAL")
	assert.Contains(t, without, `Classify the following merchant/description: "Starbucks latte"`)
	for _, c := range model.Categories() {
		assert.Contains(t, without, "- "+string(c)+": ")
	}

	with := buildCategoryPrompt("Coffee", []model.TrainingExample{
		{Description: "Coffee", CorrectCategory: model.CategoryShopping},
	})
	assert.Contains(t, with, "CRITICAL")
	assert.Contains(t, with, `- "Coffee" MUST be categorized as "Shopping"`)
	assert.Less(t, strings.Index(with, "CRITICAL"), strings.Index(with, "TASK:"))
}

func TestBuildInsightPrompt(t *testing.T) {
	expenses := []model.Expense{sampleExpense("Coffee", "4.5", model.CategoryFoodDining)}
	eur, _ := model.FindCurrency("EUR")

	prompt := buildInsightPrompt(expenses, eur)
	assert.Contains(t, prompt, "2026-10-15: Coffee - €4.50 (Food & Dining)")
	assert.Contains(t, prompt, `"suggestions"`)
}
