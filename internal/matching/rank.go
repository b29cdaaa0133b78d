// internal/matching/rank.go
package matching

import (
	"sort"
	"time"
)

// Match pairs a scored candidate with its reasons.
type Match struct {
	Candidate Candidate
	Score     int
	Reasons   []string
}

// Rank excludes offerings the investor already engaged with, scores the
// rest, and orders them by descending score. Ties keep the relative order
// of the input candidate set (stable sort, no secondary key). An empty
// candidate set yields an empty, non-nil result.
func Rank(prefs *Preferences, candidates []Candidate, exclude map[string]bool, now time.Time) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if exclude[c.OfferingID] {
			continue
		}
		score, reasons := Score(prefs, c, now)
		matches = append(matches, Match{Candidate: c, Score: score, Reasons: reasons})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}
