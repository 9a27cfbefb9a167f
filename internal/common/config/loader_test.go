package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: bizhealth
camunda:
  broker_address: localhost:26500
workers:
  process-business-message:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "bizhealth", cfg.App.Name)
	assert.Equal(t, "genai", cfg.Extraction.Provider)
	assert.Equal(t, "general", cfg.Conversation.BenchmarkCategory)
	assert.Equal(t, 10, cfg.Conversation.HistoryLimit)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, ":8080", cfg.Server.Address)

	worker := cfg.Workers["process-business-message"]
	assert.True(t, worker.Enabled)
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 3, worker.MaxRetries)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("BIZ_TEST_GENAI_URL", "http://genai.local:9000")
	path := writeConfig(t, `
apis:
  genai:
    base_url: ${BIZ_TEST_GENAI_URL}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://genai.local:9000", cfg.APIs.GenAI.BaseURL)
}

func TestLoadFromFile_SecretsFromConventionalEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	path := writeConfig(t, `
extraction:
  provider: anthropic
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.APIs.Anthropic.APIKey)
	assert.Equal(t, int64(1024), cfg.APIs.Anthropic.MaxTokens)
}

func TestLoadFromFile_RejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, `
extraction:
  provider: oracle
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extraction.provider")
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateWorkerRuntime(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Camunda.BrokerAddress = "localhost:26500"
		cfg.Database.Postgres.Host = "localhost"
		cfg.Database.Postgres.Database = "bizhealth"
		cfg.Database.Postgres.User = "postgres"
		cfg.Database.Redis.Address = "localhost:6379"
		cfg.Extraction.Provider = "genai"
		cfg.APIs.GenAI.BaseURL = "http://genai"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no broker", mutate: func(c *Config) { c.Camunda.BrokerAddress = "" }, wantErr: "broker_address"},
		{name: "no redis", mutate: func(c *Config) { c.Database.Redis.Address = "" }, wantErr: "redis.address"},
		{name: "genai without url", mutate: func(c *Config) { c.APIs.GenAI.BaseURL = "" }, wantErr: "genai.base_url"},
		{
			name: "anthropic without key",
			mutate: func(c *Config) {
				c.Extraction.Provider = "anthropic"
			},
			wantErr: "anthropic.api_key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateWorkerRuntime(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"compare-benchmarks": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "compare-benchmarks"))
	assert.True(t, IsWorkerEnabled(cfg, "score-business-health"))
	assert.Equal(t, 5, GetWorkerConfig(cfg, "score-business-health").MaxJobsActive)
	assert.Equal(t, 2, GetWorkerConfig(cfg, "compare-benchmarks").MaxJobsActive)
}
