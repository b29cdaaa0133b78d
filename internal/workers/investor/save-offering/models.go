// internal/workers/investor/save-offering/models.go
package saveoffering

import "equityai-workers/internal/models"

type Input struct {
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	Action     string `json:"action"`
	OfferingID string `json:"offering_id,omitempty"`
}

type Output struct {
	Saved bool                   `json:"saved"`
	Data  []models.SavedOffering `json:"data,omitempty"`
	Count int                    `json:"count"`
}
