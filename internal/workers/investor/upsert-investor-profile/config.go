// internal/workers/investor/upsert-investor-profile/config.go
package upsertinvestorprofile

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
