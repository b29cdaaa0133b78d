// internal/workers/company/create-company/models.go
package createcompany

type Input struct {
	UserID      string  `json:"userId"`
	Role        string  `json:"role"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Sector      string  `json:"sector"`
	Stage       string  `json:"stage"`
	Website     *string `json:"website,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	FoundedYear *int    `json:"founded_year,omitempty"`
	TeamSize    *int    `json:"team_size,omitempty"`
	Location    *string `json:"location,omitempty"`
}

type Output struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}
