// internal/workers/search/search-offerings/config.go
package searchofferings

import "time"

type Config struct {
	Index        string
	DefaultLimit int
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:        "offerings",
		DefaultLimit: 20,
		Timeout:      10 * time.Second,
	}
}
