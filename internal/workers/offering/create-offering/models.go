// internal/workers/offering/create-offering/models.go
package createoffering

import "equityai-workers/internal/models"

type Input struct {
	UserID            string              `json:"userId"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	OfferingType      string              `json:"offering_type"`
	TargetRaise       int64               `json:"target_raise"`
	MinimumInvestment int64               `json:"minimum_investment"`
	ValuationCap      *int64              `json:"valuation_cap"`
	EquityPercentage  *float64            `json:"equity_percentage"`
	Deadline          *string             `json:"deadline"`
	Highlights        []string            `json:"highlights"`
	Risks             []string            `json:"risks"`
	UseOfFunds        []models.UseOfFunds `json:"use_of_funds"`
}

type Output struct {
	Data *models.Offering `json:"data"`
}
