// internal/workers/search/search-offerings/models.go
package searchofferings

type Input struct {
	Query  string `json:"query"`
	Sector string `json:"sector,omitempty"`
	Stage  string `json:"stage,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	From   int    `json:"from,omitempty"`
}

type Hit struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CompanyName string  `json:"company_name"`
	Sector      string  `json:"sector"`
	Stage       string  `json:"stage"`
	Score       float64 `json:"score"`
}

type Output struct {
	Data      []Hit `json:"data"`
	TotalHits int   `json:"total_hits"`
	Took      int   `json:"took"`
}
