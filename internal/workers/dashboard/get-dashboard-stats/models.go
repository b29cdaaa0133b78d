// internal/workers/dashboard/get-dashboard-stats/models.go
package getdashboardstats

type Input struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type FounderStats struct {
	HasCompany       bool  `json:"has_company"`
	TotalOfferings   int   `json:"total_offerings,omitempty"`
	LiveOfferings    int   `json:"live_offerings,omitempty"`
	TotalInterests   int   `json:"total_interests,omitempty"`
	TotalAmount      int64 `json:"total_amount,omitempty"`
	PendingInterests int   `json:"pending_interests,omitempty"`
}

type InvestorStats struct {
	TotalInterests    int `json:"total_interests"`
	PendingInterests  int `json:"pending_interests"`
	AcceptedInterests int `json:"accepted_interests"`
	SavedCount        int `json:"saved_count"`
	LiveOfferings     int `json:"live_offerings"`
}

type AdminStats struct {
	TotalUsers     int `json:"total_users"`
	TotalOfferings int `json:"total_offerings"`
	PendingReview  int `json:"pending_review"`
	LiveOfferings  int `json:"live_offerings"`
	TotalInterests int `json:"total_interests"`
}

type Output struct {
	Founder  *FounderStats  `json:"founder,omitempty"`
	Investor *InvestorStats `json:"investor,omitempty"`
	Admin    *AdminStats    `json:"admin,omitempty"`
}
