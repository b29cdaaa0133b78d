// internal/workers/matching/get-offering-matches/config.go
package getofferingmatches

import "time"

type Config struct {
	CacheTTL   time.Duration
	MaxResults int
	Timeout    time.Duration
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL:   10 * time.Minute,
		MaxResults: 50,
		Timeout:    10 * time.Second,
	}
}
