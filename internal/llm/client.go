package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Request is a single prompt/response exchange.
type Request struct {
	System      string
	Prompt      string
	Temperature float64 // zero uses the client default
	MaxTokens   int     // zero uses the client default
	JSON        bool    // ask the provider for a JSON object
}

// Response is the provider's text answer.
type Response struct {
	Text  string
	Model string
}

// Supported providers.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
)

// Config holds provider settings and the classifier's call policy.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	Timeout     time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}
