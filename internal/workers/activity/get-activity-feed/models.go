// internal/workers/activity/get-activity-feed/models.go
package getactivityfeed

type Input struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// FeedItem is an activity row decorated for display.
type FeedItem struct {
	ID               string                 `json:"id"`
	UserID           string                 `json:"user_id"`
	Action           string                 `json:"action"`
	EntityType       *string                `json:"entity_type"`
	EntityID         *string                `json:"entity_id"`
	Metadata         map[string]interface{} `json:"metadata"`
	CreatedAt        string                 `json:"created_at"`
	ActorName        string                 `json:"actor_name"`
	ActorAvatar      *string                `json:"actor_avatar"`
	ActorRole        string                 `json:"actor_role"`
	FormattedMessage string                 `json:"formatted_message"`
	TimeAgo          string                 `json:"time_ago"`
}

type Output struct {
	Data    []FeedItem `json:"data"`
	Count   int        `json:"count"`
	HasMore bool       `json:"has_more"`
}
