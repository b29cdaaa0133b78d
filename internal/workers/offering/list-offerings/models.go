// internal/workers/offering/list-offerings/models.go
package listofferings

import "equityai-workers/internal/models"

type Input struct {
	Status       string `json:"status"`
	Search       string `json:"search"`
	OfferingType string `json:"offering_type"`
	Sector       string `json:"sector"`
	Stage        string `json:"stage"`
	Limit        int    `json:"limit"`
	Offset       int    `json:"offset"`
}

type Output struct {
	Data  []models.Offering `json:"data"`
	Count int               `json:"count"`
}
