// internal/workers/matching/get-offering-matches/models.go
package getofferingmatches

import "time"

type Input struct {
	UserID string `json:"userId"`
}

// Preferences is the cached shape of the investor preference record.
type Preferences struct {
	SectorsOfInterest []string `json:"sectors_of_interest"`
	StagesOfInterest  []string `json:"stages_of_interest"`
	InvestmentMin     *int64   `json:"investment_min"`
	InvestmentMax     *int64   `json:"investment_max"`
}

type MatchCompany struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Sector  string `json:"sector"`
	Stage   string `json:"stage"`
	LogoURL string `json:"logo_url,omitempty"`
}

// OfferingMatch is one scored offering in the response payload.
type OfferingMatch struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	OfferingType      string       `json:"offering_type"`
	TargetRaise       int64        `json:"target_raise"`
	MinimumInvestment int64        `json:"minimum_investment"`
	Status            string       `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	Company           MatchCompany `json:"company"`
	InterestCount     int          `json:"interest_count"`
	MatchScore        int          `json:"match_score"`
	MatchReasons      []string     `json:"match_reasons"`
}

type Output struct {
	Data           []OfferingMatch `json:"data"`
	Total          int             `json:"total"`
	HasPreferences bool            `json:"has_preferences"`
}
