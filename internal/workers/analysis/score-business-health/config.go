package scorebusinesshealth

import "time"

type Config struct {
	Timeout         time.Duration
	DefaultCategory string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         5 * time.Second,
		DefaultCategory: "general",
	}
}
