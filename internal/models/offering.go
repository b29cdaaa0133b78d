// internal/models/offering.go
package models

type OfferingType string

const (
	TypeEquity          OfferingType = "equity"
	TypeSAFE            OfferingType = "safe"
	TypeConvertibleNote OfferingType = "convertible-note"
)

type OfferingStatus string

const (
	StatusDraft       OfferingStatus = "draft"
	StatusUnderReview OfferingStatus = "under-review"
	StatusLive        OfferingStatus = "live"
	StatusFunded      OfferingStatus = "funded"
	StatusClosed      OfferingStatus = "closed"
)

type UseOfFunds struct {
	Category   string `json:"category"`
	Percentage int    `json:"percentage"`
}

// Monetary amounts are in cents.
type Offering struct {
	ID                string         `json:"id"`
	CompanyID         string         `json:"company_id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	OfferingType      OfferingType   `json:"offering_type"`
	TargetRaise       int64          `json:"target_raise"`
	MinimumInvestment int64          `json:"minimum_investment"`
	ValuationCap      *int64         `json:"valuation_cap"`
	EquityPercentage  *float64       `json:"equity_percentage"`
	Status            OfferingStatus `json:"status"`
	Deadline          *string        `json:"deadline"`
	Highlights        []string       `json:"highlights"`
	Risks             []string       `json:"risks"`
	UseOfFunds        []UseOfFunds   `json:"use_of_funds"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`

	// Joined fields
	Company             *Company `json:"company,omitempty"`
	InterestCount       int      `json:"interest_count,omitempty"`
	TotalInterestAmount int64    `json:"total_interest_amount,omitempty"`
}
