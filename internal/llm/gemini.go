package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// geminiClient calls the Gemini generateContent endpoint.
type geminiClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

func newGeminiClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiBaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &geminiClient{
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		httpClient:  newHTTPClient(cfg.Timeout),
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

// Complete sends a generateContent request.
func (c *geminiClient) Complete(ctx context.Context, req Request) (Response, error) {
	generation := map[string]any{
		"maxOutputTokens": pickInt(req.MaxTokens, c.maxTokens),
	}
	if t := pick(req.Temperature, c.temperature); t != 0 {
		generation["temperature"] = t
	}
	if req.JSON {
		generation["responseMimeType"] = "application/json"
	}

	requestBody := map[string]any{
		"contents":         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
		"generationConfig": generation,
	}
	if req.System != "" {
		requestBody["systemInstruction"] = geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))

	var response geminiResponse
	err := postJSON(ctx, c.httpClient, "gemini", endpoint,
		map[string]string{"x-goog-api-key": c.apiKey}, requestBody, &response)
	if err != nil {
		return Response{}, err
	}

	if len(response.Candidates) == 0 {
		return Response{}, fmt.Errorf("no candidates returned")
	}

	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	return Response{Text: text.String(), Model: response.ModelVersion}, nil
}

// geminiResponse represents the generateContent response structure.
type geminiResponse struct {
	ModelVersion string `json:"modelVersion"`
	Candidates   []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}
