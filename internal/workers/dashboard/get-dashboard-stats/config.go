// internal/workers/dashboard/get-dashboard-stats/config.go
package getdashboardstats

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
