// internal/workers/interest/update-interest-status/models.go
package updateintereststatus

type Input struct {
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	InterestID string `json:"interest_id"`
	Status     string `json:"status"`
}

type Output struct {
	InterestID string `json:"interest_id"`
	OfferingID string `json:"offering_id"`
	Status     string `json:"status"`
}
