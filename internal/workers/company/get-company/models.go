// internal/workers/company/get-company/models.go
package getcompany

import "equityai-workers/internal/models"

type Input struct {
	CompanyID string `json:"company_id,omitempty"`
	FounderID string `json:"founder_id,omitempty"`
}

type Output struct {
	Company *models.Company `json:"company"`
}
