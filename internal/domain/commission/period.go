package commission

import (
	"time"

	"github.com/glowpos/backend/internal/domain/shared"
)

// PeriodType is the pay-period granularity of a batch calculation
type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
	PeriodYearly  PeriodType = "yearly"
)

// IsValid checks if the period type is a valid PeriodType
func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Period is a [Start, End) window
type Period struct {
	Type  PeriodType `json:"type"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
}

// PeriodEnding returns the window of the given type that ends at now, in
// now's location. Weeks start on Monday.
func PeriodEnding(periodType PeriodType, now time.Time) (Period, error) {
	if !periodType.IsValid() {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Period type must be daily, weekly, monthly or yearly")
	}

	y, m, d := now.Date()
	loc := now.Location()
	var start time.Time
	switch periodType {
	case PeriodDaily:
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	case PeriodWeekly:
		offset := (int(now.Weekday()) + 6) % 7
		start = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case PeriodMonthly:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case PeriodYearly:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}

	return Period{Type: periodType, Start: start, End: now}, nil
}
