// internal/models/company.go
package models

type CompanyStage string

const (
	StagePreSeed CompanyStage = "pre-seed"
	StageSeed    CompanyStage = "seed"
	StageSeriesA CompanyStage = "series-a"
)

type Company struct {
	ID          string       `json:"id"`
	FounderID   string       `json:"founder_id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Sector      string       `json:"sector"`
	Stage       CompanyStage `json:"stage"`
	Website     *string      `json:"website"`
	LogoURL     *string      `json:"logo_url"`
	FoundedYear *int         `json:"founded_year"`
	TeamSize    *int         `json:"team_size"`
	Location    *string      `json:"location"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`

	// Joined fields
	Founder *Profile `json:"founder,omitempty"`
}
