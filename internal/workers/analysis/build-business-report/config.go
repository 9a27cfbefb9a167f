package buildbusinessreport

import "time"

type Config struct {
	Timeout           time.Duration
	DefaultHistory    int
	DefaultPeriodDays int
	Category          string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:           15 * time.Second,
		DefaultHistory:    10,
		DefaultPeriodDays: 90,
		Category:          "general",
	}
}
