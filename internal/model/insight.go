package model

// Insight is a generated summary of spending habits.
type Insight struct {
	Summary     string   `json:"summary"`
	Prediction  string   `json:"prediction"`
	Suggestions []string `json:"suggestions"`
	Fallback    bool     `json:"-"`
}

// FallbackInsight is returned when the oracle's answer cannot be understood.
func FallbackInsight() Insight {
	return Insight{
		Summary: "Could not generate automated summary at this time.",
		Suggestions: []string{
			"Check your high-cost categories.",
			"Maintain a consistent budget.",
		},
		Prediction: "Ensure more historical data for accurate forecasting.",
		Fallback:   true,
	}
}
