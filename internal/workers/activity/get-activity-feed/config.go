// internal/workers/activity/get-activity-feed/config.go
package getactivityfeed

import "time"

type Config struct {
	DefaultLimit int
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultLimit: 20,
		Timeout:      10 * time.Second,
	}
}
