// internal/workers/offering/create-offering/config.go
package createoffering

import "time"

type Config struct {
	Timeout time.Duration

	// InputSchema is the JSON schema published for this task type in the
	// activity registry. Validation is skipped when nil.
	InputSchema map[string]interface{}
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
