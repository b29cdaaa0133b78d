// internal/workers/interest/express-interest/models.go
package expressinterest

type Input struct {
	UserID     string  `json:"userId"`
	Role       string  `json:"role"`
	OfferingID string  `json:"offering_id"`
	Amount     *int64  `json:"amount,omitempty"`
	Message    *string `json:"message,omitempty"`
}

type Output struct {
	InterestID string `json:"interest_id"`
	OfferingID string `json:"offering_id"`
	Status     string `json:"status"`
}
