package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/spendsmart/internal/model"
)

// Bounds on the insight's suggestion list.
const (
	minSuggestions = 3
	maxSuggestions = 4
)

// cleanMarkdownWrapper strips a ```json fenced block down to its contents.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if nl := strings.IndexByte(content, '\n'); nl >= 0 {
		// Drop the language tag line, if any.
		if tag := strings.TrimSpace(content[:nl]); !strings.ContainsAny(tag, "{[\"") {
			content = content[nl+1:]
		}
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// parseCategory turns free text into a prediction. Models sometimes wrap the
// name in quotes, bold markers or a trailing period.
func parseCategory(content string) model.Prediction {
	raw := cleanMarkdownWrapper(content)

	cleaned := raw
	if first, _, ok := strings.Cut(cleaned, "\n"); ok {
		cleaned = first
	}
	cleaned = strings.TrimPrefix(strings.TrimSpace(cleaned), "Category:")
	cleaned = strings.Trim(strings.TrimSpace(cleaned), "\"'`*.")

	p := model.NewPrediction(cleaned)
	p.Raw = raw
	return p
}

// parseInsight decodes the insight JSON. Missing required fields are an error.
func parseInsight(content string) (model.Insight, error) {
	var resp struct {
		Summary     string   `json:"summary"`
		Prediction  string   `json:"prediction"`
		Suggestions []string `json:"suggestions"`
	}

	content = cleanMarkdownWrapper(content)
	if content == "" {
		return model.Insight{}, fmt.Errorf("empty insight response")
	}
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return model.Insight{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	insight := model.Insight{
		Summary:    strings.TrimSpace(resp.Summary),
		Prediction: strings.TrimSpace(resp.Prediction),
	}
	for _, s := range resp.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			insight.Suggestions = append(insight.Suggestions, s)
		}
	}

	switch {
	case insight.Summary == "":
		return model.Insight{}, fmt.Errorf("no summary found in response")
	case insight.Prediction == "":
		return model.Insight{}, fmt.Errorf("no prediction found in response")
	case len(insight.Suggestions) < minSuggestions:
		return model.Insight{}, fmt.Errorf("expected at least %d suggestions, got %d", minSuggestions, len(insight.Suggestions))
	}

	if len(insight.Suggestions) > maxSuggestions {
		insight.Suggestions = insight.Suggestions[:maxSuggestions]
	}
	return insight, nil
}
