// internal/workers/offering/list-offerings/config.go
package listofferings

import "time"

type Config struct {
	DefaultLimit int
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultLimit: 50,
		Timeout:      10 * time.Second,
	}
}
