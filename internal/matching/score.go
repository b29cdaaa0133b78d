// internal/matching/score.go

// Package matching scores live offerings against an investor's stated
// preferences. Scoring is pure: no I/O and no clock reads. Callers capture
// "now" once per request and pass it in so recency scoring stays consistent
// across a single response.
package matching

import (
	"fmt"
	"strings"
	"time"
)

// Point values per scoring tier. The maximum attainable score is 110.
const (
	SectorMatchPoints   = 40
	StageMatchPoints    = 30
	SizeInRangePoints   = 20
	SizeUnderMaxPoints  = 10
	PopularPoints       = 10
	TractionPoints      = 5
	NewListingPoints    = 10
	RecentListingPoints = 5
	MaxScore            = SectorMatchPoints + StageMatchPoints + SizeInRangePoints + PopularPoints + NewListingPoints
	popularThreshold    = 5
	tractionThreshold   = 2
	newListingDays      = 3.0
	recentListingDays   = 7.0
)

// Preferences is an investor's stated preference set. A nil *Preferences
// means no preference record exists; all preference-driven tiers skip.
type Preferences struct {
	Sectors       []string
	Stages        []string
	InvestmentMin *int64 // cents
	InvestmentMax *int64 // cents
}

// Candidate is an immutable offering snapshot at scoring time, enriched
// with its company's sector and stage and the current interest count.
type Candidate struct {
	OfferingID        string
	Sector            string
	Stage             string
	MinimumInvestment int64 // cents
	InterestCount     int
	CreatedAt         time.Time
}

// Score computes the additive match score and the human-readable reasons
// for one (preferences, offering) pair. Reasons are appended in tier order:
// sector, stage, size fit, social proof, recency. Identical inputs always
// produce identical output.
func Score(prefs *Preferences, c Candidate, now time.Time) (int, []string) {
	score := 0
	reasons := []string{}

	// Sector match: case-insensitive substring in either direction. Only
	// the first matching stated sector contributes.
	if prefs != nil && len(prefs.Sectors) > 0 && c.Sector != "" {
		offeringSector := strings.ToLower(c.Sector)
		for _, s := range prefs.Sectors {
			stated := strings.ToLower(s)
			if strings.Contains(offeringSector, stated) || strings.Contains(stated, offeringSector) {
				score += SectorMatchPoints
				reasons = append(reasons, fmt.Sprintf("Matches your interest in %s", c.Sector))
				break
			}
		}
	}

	// Stage match: exact membership.
	if prefs != nil && len(prefs.Stages) > 0 && c.Stage != "" {
		for _, s := range prefs.Stages {
			if s == c.Stage {
				score += StageMatchPoints
				reasons = append(reasons, fmt.Sprintf("%s stage matches your preference", strings.ReplaceAll(c.Stage, "-", " ")))
				break
			}
		}
	}

	// Investment-size fit: requires both bounds; no partial credit when
	// either is missing.
	if prefs != nil && prefs.InvestmentMin != nil && prefs.InvestmentMax != nil {
		if c.MinimumInvestment >= *prefs.InvestmentMin && c.MinimumInvestment <= *prefs.InvestmentMax {
			score += SizeInRangePoints
			reasons = append(reasons, "Minimum investment fits your range")
		} else if c.MinimumInvestment <= *prefs.InvestmentMax {
			score += SizeUnderMaxPoints
			reasons = append(reasons, "Within your maximum investment capacity")
		}
	}

	// Social proof from other investors' interest counts.
	if c.InterestCount >= popularThreshold {
		score += PopularPoints
		reasons = append(reasons, "Popular with other investors")
	} else if c.InterestCount >= tractionThreshold {
		score += TractionPoints
		reasons = append(reasons, "Gaining traction")
	}

	// Recency boost, decaying over seven days. The 5-point tier carries
	// no reason string.
	days := now.Sub(c.CreatedAt).Hours() / 24
	if days < newListingDays {
		score += NewListingPoints
		reasons = append(reasons, "New listing")
	} else if days < recentListingDays {
		score += RecentListingPoints
	}

	return score, reasons
}

// HasPreferences reports whether a preference record exists with at least
// one sector or stage of interest. Investment bounds alone do not count;
// the flag drives a "complete your profile" prompt, not scoring.
func HasPreferences(prefs *Preferences) bool {
	return prefs != nil && (len(prefs.Sectors) > 0 || len(prefs.Stages) > 0)
}
