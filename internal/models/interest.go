// internal/models/interest.go
package models

type InterestStatus string

const (
	InterestPending   InterestStatus = "pending"
	InterestAccepted  InterestStatus = "accepted"
	InterestDeclined  InterestStatus = "declined"
	InterestWithdrawn InterestStatus = "withdrawn"
)

// Interest is a non-binding pledge by one investor against one offering.
// At most one Interest exists per (investor, offering) pair.
type Interest struct {
	ID         string         `json:"id"`
	InvestorID string         `json:"investor_id"`
	OfferingID string         `json:"offering_id"`
	Amount     *int64         `json:"amount"`
	Message    *string        `json:"message"`
	Status     InterestStatus `json:"status"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`

	// Joined fields
	Investor *Profile  `json:"investor,omitempty"`
	Offering *Offering `json:"offering,omitempty"`
}

type SavedOffering struct {
	InvestorID string    `json:"investor_id"`
	OfferingID string    `json:"offering_id"`
	CreatedAt  string    `json:"created_at"`
	Offering   *Offering `json:"offering,omitempty"`
}
