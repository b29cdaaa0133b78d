// internal/matching/score_test.go
package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func i64(v int64) *int64 { return &v }

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fullPrefs() *Preferences {
	return &Preferences{
		Sectors:       []string{"Fintech"},
		Stages:        []string{"seed"},
		InvestmentMin: i64(1000000),  // $10,000
		InvestmentMax: i64(10000000), // $100,000
	}
}

func TestScore_PerfectMatch(t *testing.T) {
	c := Candidate{
		OfferingID:        "off-1",
		Sector:            "Fintech",
		Stage:             "seed",
		MinimumInvestment: 2500000, // $25,000
		InterestCount:     6,
		CreatedAt:         testNow.Add(-24 * time.Hour),
	}

	score, reasons := Score(fullPrefs(), c, testNow)

	assert.Equal(t, 110, score)
	assert.Equal(t, []string{
		"Matches your interest in Fintech",
		"seed stage matches your preference",
		"Minimum investment fits your range",
		"Popular with other investors",
		"New listing",
	}, reasons)
}

func TestScore_NoTiersTriggered(t *testing.T) {
	c := Candidate{
		OfferingID:        "off-2",
		Sector:            "Biotech",
		Stage:             "series-a",
		MinimumInvestment: 15000000, // $150,000, above investor max
		InterestCount:     0,
		CreatedAt:         testNow.Add(-30 * 24 * time.Hour),
	}

	score, reasons := Score(fullPrefs(), c, testNow)

	assert.Equal(t, 0, score)
	assert.Empty(t, reasons)
}

func TestScore_NoPreferenceRecord(t *testing.T) {
	c := Candidate{
		OfferingID:        "off-1",
		Sector:            "Fintech",
		Stage:             "seed",
		MinimumInvestment: 2500000,
		InterestCount:     6,
		CreatedAt:         testNow.Add(-24 * time.Hour),
	}

	// Only social proof and recency can trigger without preferences.
	score, reasons := Score(nil, c, testNow)

	assert.Equal(t, 20, score)
	assert.Equal(t, []string{"Popular with other investors", "New listing"}, reasons)
}

func TestScore_BelowMinButWithinMax(t *testing.T) {
	c := Candidate{
		OfferingID:        "off-3",
		MinimumInvestment: 500000, // $5,000, below the investor's $10,000 min
		CreatedAt:         testNow.Add(-30 * 24 * time.Hour),
	}

	score, reasons := Score(fullPrefs(), c, testNow)

	assert.Equal(t, 10, score)
	assert.Equal(t, []string{"Within your maximum investment capacity"}, reasons)
}

func TestScore_SizeFitRequiresBothBounds(t *testing.T) {
	prefs := fullPrefs()
	prefs.InvestmentMax = nil

	c := Candidate{
		OfferingID:        "off-4",
		MinimumInvestment: 2500000,
		CreatedAt:         testNow.Add(-30 * 24 * time.Hour),
	}

	score, reasons := Score(prefs, c, testNow)

	assert.Equal(t, 0, score)
	assert.Empty(t, reasons)
}

func TestScore_SectorSubstringBothDirections(t *testing.T) {
	tests := []struct {
		name          string
		statedSectors []string
		sector        string
		wantMatch     bool
	}{
		{"offering contains stated", []string{"Tech"}, "Fintech", true},
		{"stated contains offering", []string{"AI / Machine Learning"}, "AI", true},
		{"case insensitive", []string{"FINTECH"}, "fintech", true},
		{"no overlap", []string{"HealthTech"}, "Consumer", false},
		{"empty offering sector skips", []string{"Fintech"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := &Preferences{Sectors: tt.statedSectors}
			c := Candidate{
				Sector:    tt.sector,
				CreatedAt: testNow.Add(-30 * 24 * time.Hour),
			}
			score, _ := Score(prefs, c, testNow)
			if tt.wantMatch {
				assert.Equal(t, SectorMatchPoints, score)
			} else {
				assert.Equal(t, 0, score)
			}
		})
	}
}

func TestScore_SectorMatchCountsOnce(t *testing.T) {
	prefs := &Preferences{Sectors: []string{"Fin", "Fintech", "Tech"}}
	c := Candidate{
		Sector:    "Fintech",
		CreatedAt: testNow.Add(-30 * 24 * time.Hour),
	}

	score, reasons := Score(prefs, c, testNow)

	assert.Equal(t, SectorMatchPoints, score)
	assert.Len(t, reasons, 1)
}

func TestScore_StageReasonReplacesHyphens(t *testing.T) {
	prefs := &Preferences{Stages: []string{"pre-seed"}}
	c := Candidate{
		Stage:     "pre-seed",
		CreatedAt: testNow.Add(-30 * 24 * time.Hour),
	}

	score, reasons := Score(prefs, c, testNow)

	assert.Equal(t, StageMatchPoints, score)
	assert.Equal(t, []string{"pre seed stage matches your preference"}, reasons)
}

func TestScore_SocialProofTiers(t *testing.T) {
	tests := []struct {
		count      int
		wantScore  int
		wantReason string
	}{
		{0, 0, ""},
		{1, 0, ""},
		{2, 5, "Gaining traction"},
		{4, 5, "Gaining traction"},
		{5, 10, "Popular with other investors"},
		{50, 10, "Popular with other investors"},
	}

	for _, tt := range tests {
		c := Candidate{
			InterestCount: tt.count,
			CreatedAt:     testNow.Add(-30 * 24 * time.Hour),
		}
		score, reasons := Score(nil, c, testNow)
		assert.Equal(t, tt.wantScore, score, "count=%d", tt.count)
		if tt.wantReason == "" {
			assert.Empty(t, reasons)
		} else {
			assert.Equal(t, []string{tt.wantReason}, reasons)
		}
	}
}

func TestScore_RecencyTiers(t *testing.T) {
	tests := []struct {
		name       string
		age        time.Duration
		wantScore  int
		wantReason bool
	}{
		{"hours old", 6 * time.Hour, 10, true},
		{"just under three days", 71 * time.Hour, 10, true},
		{"three days", 72 * time.Hour, 5, false}, // 5-point tier has no reason
		{"just under a week", 167 * time.Hour, 5, false},
		{"a week", 168 * time.Hour, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Candidate{CreatedAt: testNow.Add(-tt.age)}
			score, reasons := Score(nil, c, testNow)
			assert.Equal(t, tt.wantScore, score)
			if tt.wantReason {
				assert.Equal(t, []string{"New listing"}, reasons)
			} else {
				assert.Empty(t, reasons)
			}
		})
	}
}

func TestScore_Idempotent(t *testing.T) {
	prefs := fullPrefs()
	c := Candidate{
		OfferingID:        "off-1",
		Sector:            "Fintech",
		Stage:             "seed",
		MinimumInvestment: 2500000,
		InterestCount:     3,
		CreatedAt:         testNow.Add(-48 * time.Hour),
	}

	score1, reasons1 := Score(prefs, c, testNow)
	score2, reasons2 := Score(prefs, c, testNow)

	assert.Equal(t, score1, score2)
	assert.Equal(t, reasons1, reasons2)
}

func TestScore_BoundedRange(t *testing.T) {
	// A brute sweep over tier combinations never escapes [0, 110].
	counts := []int{0, 2, 5}
	ages := []time.Duration{time.Hour, 4 * 24 * time.Hour, 30 * 24 * time.Hour}
	prefsVariants := []*Preferences{nil, fullPrefs(), {Sectors: []string{"Fintech"}}}

	for _, prefs := range prefsVariants {
		for _, count := range counts {
			for _, age := range ages {
				c := Candidate{
					Sector:            "Fintech",
					Stage:             "seed",
					MinimumInvestment: 2500000,
					InterestCount:     count,
					CreatedAt:         testNow.Add(-age),
				}
				score, _ := Score(prefs, c, testNow)
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, MaxScore)
			}
		}
	}
}

func TestHasPreferences(t *testing.T) {
	assert.False(t, HasPreferences(nil))
	assert.False(t, HasPreferences(&Preferences{}))
	assert.False(t, HasPreferences(&Preferences{InvestmentMin: i64(100), InvestmentMax: i64(200)}))
	assert.True(t, HasPreferences(&Preferences{Sectors: []string{"Fintech"}}))
	assert.True(t, HasPreferences(&Preferences{Stages: []string{"seed"}}))
}
