package extraction

import (
	"fmt"

	"business-health-workers/internal/common/config"
	"business-health-workers/internal/common/logger"
	"business-health-workers/pkg/anthropic"

	"github.com/anthropics/anthropic-sdk-go/option"
)

// NewFromConfig builds the configured backend and wraps it in a Guarded.
func NewFromConfig(cfg *config.Config, log logger.Logger) (*Guarded, error) {
	opts := GuardOptions{
		Provider:   cfg.Extraction.Provider,
		Timeout:    config.GetDuration(cfg.Extraction.Timeout),
		MaxRetries: cfg.Extraction.MaxRetries,
	}

	switch cfg.Extraction.Provider {
	case "genai":
		if cfg.APIs.GenAI.BaseURL == "" {
			return nil, fmt.Errorf("genai provider needs apis.genai.base_url")
		}
		client := NewGenAIClient(GenAIConfig{
			BaseURL: cfg.APIs.GenAI.BaseURL,
			APIKey:  cfg.APIs.GenAI.APIKey,
			Timeout: config.GetDuration(cfg.APIs.GenAI.Timeout),
			// the guard owns the retry budget
			MaxRetries: 0,
		}, log)
		return NewGuarded(client, client, opts, log), nil

	case "anthropic":
		if cfg.APIs.Anthropic.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider needs apis.anthropic.api_key")
		}
		sdk := anthropic.NewClient(cfg.APIs.Anthropic.APIKey,
			option.WithRequestTimeout(config.GetDuration(cfg.APIs.Anthropic.Timeout)),
			option.WithMaxRetries(0),
		)
		client := NewAnthropicClient(sdk, AnthropicConfig{
			Model:       cfg.APIs.Anthropic.Model,
			MaxTokens:   cfg.APIs.Anthropic.MaxTokens,
			Temperature: cfg.APIs.Anthropic.Temp,
		}, log)
		return NewGuarded(client, client, opts, log), nil

	default:
		return nil, fmt.Errorf("unknown extraction provider %q", cfg.Extraction.Provider)
	}
}
