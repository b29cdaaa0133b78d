// internal/workers/communication/send-notification/models.go
package sendnotification

type Input struct {
	UserID  string                 `json:"userId"`
	Type    string                 `json:"type"`
	Title   string                 `json:"title"`
	Body    string                 `json:"body"`
	Channel string                 `json:"channel,omitempty"` // "email", "sms", "in-app"
	Email   string                 `json:"email,omitempty"`
	Phone   string                 `json:"phone,omitempty"`
	Meta    map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notification_id"`
	Delivered      bool   `json:"delivered"`
	Skipped        bool   `json:"skipped,omitempty"`
	Channel        string `json:"channel"`
}
