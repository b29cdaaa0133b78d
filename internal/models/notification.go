// internal/models/notification.go
package models

type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"type"` // "interest_received", "interest_status", "offering_reviewed", "welcome"
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Read      bool                   `json:"read"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt string                 `json:"created_at"`
}
