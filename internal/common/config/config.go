package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	APIs         APIsConfig              `mapstructure:"apis"`
	Extraction   ExtractionConfig        `mapstructure:"extraction"`
	Conversation ConversationConfig      `mapstructure:"conversation"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Logging      LoggingConfig           `mapstructure:"logging"`
	Server       ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// APIsConfig holds the language-model backends used for extraction.
type APIsConfig struct {
	GenAI struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"genai"`

	Anthropic struct {
		APIKey    string  `mapstructure:"api_key"`
		Model     string  `mapstructure:"model"`
		MaxTokens int64   `mapstructure:"max_tokens"`
		Timeout   int     `mapstructure:"timeout"` // milliseconds
		Temp      float64 `mapstructure:"temperature"`
	} `mapstructure:"anthropic"`
}

// ExtractionConfig selects the extractor backend and the caller-side guard around it.
type ExtractionConfig struct {
	Provider   string `mapstructure:"provider"` // "genai" or "anthropic"
	Timeout    int    `mapstructure:"timeout"`  // milliseconds, per attempt
	MaxRetries int    `mapstructure:"max_retries"`
}

// ConversationConfig tunes the collection dialog and the analysis it triggers.
type ConversationConfig struct {
	SessionTTL        int    `mapstructure:"session_ttl"` // minutes
	BenchmarkCategory string `mapstructure:"benchmark_category"`
	HistoryLimit      int    `mapstructure:"history_limit"`
	HistoryCacheTTL   int    `mapstructure:"history_cache_ttl"` // seconds
}

// IntegrationConfig holds downstream delivery channels.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SNS    struct {
			Enabled  bool   `mapstructure:"enabled"`
			TopicARN string `mapstructure:"topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig is the health and metrics listener of the worker manager.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}
