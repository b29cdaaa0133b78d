// internal/workers/company/update-company/models.go
package updatecompany

type Input struct {
	UserID      string  `json:"userId"`
	CompanyID   string  `json:"company_id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Sector      *string `json:"sector,omitempty"`
	Stage       *string `json:"stage,omitempty"`
	Website     *string `json:"website,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	FoundedYear *int    `json:"founded_year,omitempty"`
	TeamSize    *int    `json:"team_size,omitempty"`
	Location    *string `json:"location,omitempty"`
}

type Output struct {
	CompanyID string `json:"company_id"`
	Updated   bool   `json:"updated"`
}
