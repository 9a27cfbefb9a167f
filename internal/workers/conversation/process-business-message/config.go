package processbusinessmessage

import "time"

type Config struct {
	// Timeout covers extraction, the classifier and, on confirmation, the analysis.
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}
