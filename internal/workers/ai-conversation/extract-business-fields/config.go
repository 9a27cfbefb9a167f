package extractbusinessfields

import "time"

type Config struct {
	Timeout       time.Duration
	MaxTextLength int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		MaxTextLength: 4000,
	}
}
