package extraction

import (
	"testing"

	"business-health-workers/internal/common/config"
	"business-health-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{
			name: "genai",
			mutate: func(cfg *config.Config) {
				cfg.Extraction.Provider = "genai"
				cfg.APIs.GenAI.BaseURL = "http://genai.local"
			},
		},
		{
			name: "genai without base url",
			mutate: func(cfg *config.Config) {
				cfg.Extraction.Provider = "genai"
			},
			wantErr: "base_url",
		},
		{
			name: "anthropic",
			mutate: func(cfg *config.Config) {
				cfg.Extraction.Provider = "anthropic"
				cfg.APIs.Anthropic.APIKey = "sk-test"
				cfg.APIs.Anthropic.Model = "claude-haiku-4-5-20251001"
			},
		},
		{
			name: "anthropic without key",
			mutate: func(cfg *config.Config) {
				cfg.Extraction.Provider = "anthropic"
			},
			wantErr: "api_key",
		},
		{
			name: "unknown provider",
			mutate: func(cfg *config.Config) {
				cfg.Extraction.Provider = "openai"
			},
			wantErr: "unknown extraction provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Extraction.Timeout = 1000
			cfg.Extraction.MaxRetries = 1
			tt.mutate(cfg)

			g, err := NewFromConfig(cfg, logger.NewNoOpLogger())

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cfg.Extraction.Provider, g.opts.Provider)
			assert.Equal(t, 1, g.opts.MaxRetries)
		})
	}
}
