// internal/models/investor_profile.go
package models

// InvestorProfile holds an investor's stated preferences. InvestmentMin and
// InvestmentMax are in cents; either may be absent.
type InvestorProfile struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	Accredited        bool     `json:"accredited"`
	InvestmentMin     *int64   `json:"investment_min"`
	InvestmentMax     *int64   `json:"investment_max"`
	SectorsOfInterest []string `json:"sectors_of_interest"`
	StagesOfInterest  []string `json:"stages_of_interest"`
	PortfolioSize     int      `json:"portfolio_size"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}
