// internal/workers/activity/record-activity/models.go
package recordactivity

type Input struct {
	UserID     string                 `json:"userId"`
	Action     string                 `json:"action"`
	EntityType *string                `json:"entity_type,omitempty"`
	EntityID   *string                `json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	ActivityID string `json:"activity_id"`
}
