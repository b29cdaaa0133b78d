// internal/workers/notification/list-notifications/models.go
package listnotifications

import "equityai-workers/internal/models"

type Input struct {
	UserID     string `json:"userId"`
	UnreadOnly bool   `json:"unread_only,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type Output struct {
	Data        []models.Notification `json:"data"`
	UnreadCount int                   `json:"unread_count"`
}
