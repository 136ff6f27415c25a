// Package llm provides the category and insight oracles. It supports Gemini,
// OpenAI (and OpenRouter) and Anthropic over plain HTTP, with rate limiting,
// optional retry of rate-limited calls, and prediction caching.
package llm
