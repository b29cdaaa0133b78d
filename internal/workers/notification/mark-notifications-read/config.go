// internal/workers/notification/mark-notifications-read/config.go
package marknotificationsread

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
