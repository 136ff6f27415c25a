package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/llm"
)

// apiKeyEnv lists, per provider, the environment variables consulted when
// no key is configured. The first non-empty one wins.
var apiKeyEnv = map[string][]string{
	llm.ProviderGemini:     {"GEMINI_API_KEY", "API_KEY"},
	llm.ProviderOpenAI:     {"OPENAI_API_KEY"},
	llm.ProviderOpenRouter: {"OPENROUTER_API_KEY"},
	llm.ProviderAnthropic:  {"ANTHROPIC_API_KEY"},
}

// LoadLLMConfig builds the oracle configuration from the llm.* keys. The API
// key comes from llm.api_key, then llm.<provider>_api_key, then the
// provider's conventional environment variable.
func LoadLLMConfig(v *viper.Viper) (llm.Config, error) {
	provider := strings.ToLower(strings.TrimSpace(v.GetString("llm.provider")))
	if provider == "" {
		provider = llm.ProviderGemini
	}

	envs, ok := apiKeyEnv[provider]
	if !ok {
		return llm.Config{}, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, provider)
	}

	cfg := llm.Config{
		Provider:    provider,
		APIKey:      v.GetString("llm.api_key"),
		Model:       v.GetString("llm.model"),
		BaseURL:     v.GetString("llm.base_url"),
		MaxRetries:  v.GetInt("llm.max_retries"),
		RetryDelay:  v.GetDuration("llm.retry_delay"),
		CacheTTL:    v.GetDuration("llm.cache_ttl"),
		Timeout:     v.GetDuration("llm.timeout"),
		RateLimit:   v.GetInt("llm.rate_limit"),
		Temperature: v.GetFloat64("llm.temperature"),
		MaxTokens:   v.GetInt("llm.max_tokens"),
	}

	if cfg.APIKey == "" {
		cfg.APIKey = v.GetString("llm." + provider + "_api_key")
	}
	for _, env := range envs {
		if cfg.APIKey != "" {
			break
		}
		cfg.APIKey = os.Getenv(env)
	}
	if cfg.APIKey == "" {
		return llm.Config{}, fmt.Errorf("%w: %s API key not found in config or %s",
			common.ErrMissingConfig, provider, strings.Join(envs, "/"))
	}

	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 60
	}
	if cfg.MaxRetries < 0 {
		return llm.Config{}, fmt.Errorf("%w: llm.max_retries cannot be negative", common.ErrInvalidConfig)
	}

	return cfg, nil
}
