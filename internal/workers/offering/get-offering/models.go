// internal/workers/offering/get-offering/models.go
package getoffering

import "equityai-workers/internal/models"

type Input struct {
	OfferingID string `json:"offeringId"`
}

type Output struct {
	Data *models.Offering `json:"data"`
}
