// internal/workers/investor/upsert-investor-profile/models.go
package upsertinvestorprofile

import "equityai-workers/internal/models"

type Input struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Action string `json:"action"`

	Accredited        *bool    `json:"accredited,omitempty"`
	InvestmentMin     *int64   `json:"investment_min,omitempty"`
	InvestmentMax     *int64   `json:"investment_max,omitempty"`
	SectorsOfInterest []string `json:"sectors_of_interest,omitempty"`
	StagesOfInterest  []string `json:"stages_of_interest,omitempty"`
	PortfolioSize     *int     `json:"portfolio_size,omitempty"`
}

type Output struct {
	Profile *models.InvestorProfile `json:"profile"`
	Found   bool                    `json:"found"`
}
