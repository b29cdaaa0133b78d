// internal/workers/communication/send-notification/config.go
package sendnotification

import "time"

type Config struct {
	SenderEmail string
	SMSEnabled  bool
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		SenderEmail: "notifications@equityai.example",
		SMSEnabled:  false,
		Timeout:     15 * time.Second,
	}
}
