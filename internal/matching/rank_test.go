// internal/matching/rank_test.go
package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRank_ExcludesPriorInterests(t *testing.T) {
	candidates := []Candidate{
		{OfferingID: "a", Sector: "Fintech", CreatedAt: testNow.Add(-time.Hour)},
		{OfferingID: "b", Sector: "Fintech", CreatedAt: testNow.Add(-time.Hour)},
		{OfferingID: "c", Sector: "Fintech", CreatedAt: testNow.Add(-time.Hour)},
	}
	exclude := map[string]bool{"b": true}

	matches := Rank(fullPrefs(), candidates, exclude, testNow)

	assert.Len(t, matches, 2)
	for _, m := range matches {
		assert.NotEqual(t, "b", m.Candidate.OfferingID)
	}
}

func TestRank_DescendingByScore(t *testing.T) {
	candidates := []Candidate{
		{OfferingID: "low", Sector: "Consumer", CreatedAt: testNow.Add(-30 * 24 * time.Hour)},
		{OfferingID: "high", Sector: "Fintech", Stage: "seed", MinimumInvestment: 2500000, InterestCount: 6, CreatedAt: testNow.Add(-time.Hour)},
		{OfferingID: "mid", Sector: "Fintech", CreatedAt: testNow.Add(-30 * 24 * time.Hour)},
	}

	matches := Rank(fullPrefs(), candidates, nil, testNow)

	assert.Equal(t, "high", matches[0].Candidate.OfferingID)
	assert.Equal(t, "mid", matches[1].Candidate.OfferingID)
	assert.Equal(t, "low", matches[2].Candidate.OfferingID)
	assert.Equal(t, 110, matches[0].Score)
}

func TestRank_StableTieBreak(t *testing.T) {
	// B precedes A in the input; identical scores must preserve that order.
	candidates := []Candidate{
		{OfferingID: "B", Sector: "Fintech", CreatedAt: testNow.Add(-30 * 24 * time.Hour)},
		{OfferingID: "A", Sector: "Fintech", CreatedAt: testNow.Add(-30 * 24 * time.Hour)},
	}

	matches := Rank(fullPrefs(), candidates, nil, testNow)

	assert.Len(t, matches, 2)
	assert.Equal(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, "B", matches[0].Candidate.OfferingID)
	assert.Equal(t, "A", matches[1].Candidate.OfferingID)
}

func TestRank_EmptyCandidateSet(t *testing.T) {
	matches := Rank(fullPrefs(), nil, nil, testNow)

	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestRank_ZeroScoreStillIncluded(t *testing.T) {
	candidates := []Candidate{
		{OfferingID: "dud", Sector: "Consumer", Stage: "series-a", MinimumInvestment: 99900000, CreatedAt: testNow.Add(-90 * 24 * time.Hour)},
	}

	matches := Rank(fullPrefs(), candidates, nil, testNow)

	assert.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Score)
	assert.Empty(t, matches[0].Reasons)
}
