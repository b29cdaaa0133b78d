// internal/workers/activity/get-activity-feed/format_test.go
package getactivityfeed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		action   string
		expected string
	}{
		{"interest_submitted", "Jane expressed interest in your offering"},
		{"interest_accepted", "Your interest was accepted by the founder"},
		{"interest_declined", "Your interest was declined"},
		{"offering_created", "Jane created a new offering"},
		{"offering_live", "Your offering is now live"},
		{"offering_funded", "Congratulations! Your offering reached its target"},
		{"profile_updated", "Jane updated their profile"},
		{"document_uploaded", "Jane uploaded a document"},
		{"offering_saved", "Jane saved an offering to watchlist"},
		{"something_else", "Jane performed an action"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMessage(tt.action, "Jane"))
		})
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		elapsed  time.Duration
		expected string
	}{
		{"seconds", 30 * time.Second, "just now"},
		{"minutes", 5 * time.Minute, "5m ago"},
		{"hours", 3 * time.Hour, "3h ago"},
		{"days", 2 * 24 * time.Hour, "2d ago"},
		{"weeks", 10 * 24 * time.Hour, "1w ago"},
		{"months", 45 * 24 * time.Hour, "1mo ago"},
		{"years", 400 * 24 * time.Hour, "1y ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, timeAgo(now.Add(-tt.elapsed), now))
		})
	}
}
