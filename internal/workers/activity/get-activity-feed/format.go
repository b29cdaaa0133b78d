// internal/workers/activity/get-activity-feed/format.go
package getactivityfeed

import (
	"fmt"
	"time"

	"equityai-workers/internal/models"
)

// formatMessage renders an activity row as a feed sentence. The actor name
// is already resolved (falling back to "Someone" for deleted accounts).
func formatMessage(action, actorName string) string {
	switch action {
	case models.ActionInterestSubmitted:
		return fmt.Sprintf("%s expressed interest in your offering", actorName)
	case models.ActionInterestAccepted:
		return "Your interest was accepted by the founder"
	case models.ActionInterestDeclined:
		return "Your interest was declined"
	case models.ActionOfferingCreated:
		return fmt.Sprintf("%s created a new offering", actorName)
	case "offering_live":
		return "Your offering is now live"
	case "offering_funded":
		return "Congratulations! Your offering reached its target"
	case models.ActionProfileUpdated:
		return fmt.Sprintf("%s updated their profile", actorName)
	case models.ActionDocumentUploaded:
		return fmt.Sprintf("%s uploaded a document", actorName)
	case models.ActionOfferingSaved:
		return fmt.Sprintf("%s saved an offering to watchlist", actorName)
	default:
		return fmt.Sprintf("%s performed an action", actorName)
	}
}

func timeAgo(createdAt, now time.Time) string {
	elapsed := now.Sub(createdAt)
	seconds := int(elapsed.Seconds())
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case seconds < 60:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	case days < 28:
		return fmt.Sprintf("%dw ago", days/7)
	case days/30 < 12:
		return fmt.Sprintf("%dmo ago", days/30)
	default:
		return fmt.Sprintf("%dy ago", days/365)
	}
}
