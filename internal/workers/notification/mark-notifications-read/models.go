// internal/workers/notification/mark-notifications-read/models.go
package marknotificationsread

type Input struct {
	UserID         string `json:"userId"`
	MarkAll        bool   `json:"mark_all,omitempty"`
	NotificationID string `json:"notification_id,omitempty"`
}

type Output struct {
	Success   bool `json:"success"`
	MarkedAll bool `json:"marked_all,omitempty"`
}
