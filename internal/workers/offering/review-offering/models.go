// internal/workers/offering/review-offering/models.go
package reviewoffering

type Input struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	OfferingID  string `json:"offeringId"`
	Status      string `json:"status"`
	AccessToken string `json:"accessToken,omitempty"`
}

type Output struct {
	OfferingID string `json:"offering_id"`
	Status     string `json:"status"`
	Action     string `json:"action"`
}
